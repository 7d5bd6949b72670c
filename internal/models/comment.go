package models

// CommentTag is one @tag entry of a doc comment.
type CommentTag struct {
	TagName   string
	ParamName string
	Text      string
}

func (t *CommentTag) ToObject() map[string]any {
	obj := map[string]any{"tag": t.TagName, "text": t.Text}
	if t.ParamName != "" {
		obj["param"] = t.ParamName
	}
	return obj
}

// Comment is a parsed doc comment.
type Comment struct {
	ShortText string
	Text      string
	Returns   string
	Tags      []*CommentTag
}

// HasVisibleComponent reports whether rendering the comment would print anything.
func (c *Comment) HasVisibleComponent() bool {
	return c.ShortText != "" || c.Text != "" || c.Returns != "" || len(c.Tags) > 0
}

// HasTag reports whether a tag with the given name exists.
func (c *Comment) HasTag(tagName string) bool {
	return c.GetTag(tagName, "") != nil
}

// GetTag returns the first tag matching tagName and, when given, paramName.
func (c *Comment) GetTag(tagName, paramName string) *CommentTag {
	for _, tag := range c.Tags {
		if tag.TagName != tagName {
			continue
		}
		if paramName == "" || tag.ParamName == paramName {
			return tag
		}
	}
	return nil
}

// RemoveTags drops every tag matching the (tagName, paramName) pair; an empty
// paramName matches any. The tag slice is rebuilt, so callers ranging over
// the previous slice are unaffected.
func (c *Comment) RemoveTags(tagName, paramName string) {
	kept := make([]*CommentTag, 0, len(c.Tags))
	for _, tag := range c.Tags {
		if tag.TagName == tagName && (paramName == "" || tag.ParamName == paramName) {
			continue
		}
		kept = append(kept, tag)
	}
	c.Tags = kept
}

// CopyFrom replaces the receiver's content with a deep copy of other.
func (c *Comment) CopyFrom(other *Comment) {
	c.ShortText = other.ShortText
	c.Text = other.Text
	c.Returns = other.Returns
	c.Tags = make([]*CommentTag, 0, len(other.Tags))
	for _, tag := range other.Tags {
		t := *tag
		c.Tags = append(c.Tags, &t)
	}
}

// Clone returns a deep copy.
func (c *Comment) Clone() *Comment {
	out := &Comment{}
	out.CopyFrom(c)
	return out
}

func (c *Comment) ToObject() map[string]any {
	obj := map[string]any{}
	if c.ShortText != "" {
		obj["shortText"] = c.ShortText
	}
	if c.Text != "" {
		obj["text"] = c.Text
	}
	if c.Returns != "" {
		obj["returns"] = c.Returns
	}
	if len(c.Tags) > 0 {
		tags := make([]any, 0, len(c.Tags))
		for _, tag := range c.Tags {
			tags = append(tags, tag.ToObject())
		}
		obj["tags"] = tags
	}
	return obj
}
