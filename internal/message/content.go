package message

import "strings"

// PartType tags one element of a multi-modal content sequence.
type PartType string

const (
	PartText  PartType = "text"
	PartImage PartType = "image_url"
	PartAudio PartType = "audio"
	PartVideo PartType = "video"
	PartFile  PartType = "file"
)

// Part is a single typed element of message content. Text carries the
// payload for text parts; URL references the media for every other kind.
type Part struct {
	Type PartType `json:"type"`
	Text string   `json:"text,omitempty"`
	URL  string   `json:"url,omitempty"`
	Name string   `json:"name,omitempty"`
}

// Content is either plain text or an ordered part sequence. Exactly one of
// the two forms is populated; the zero value is empty text.
type Content struct {
	Text  string `json:"text,omitempty"`
	Parts []Part `json:"parts,omitempty"`
}

// Text builds plain-text content.
func Text(s string) Content {
	return Content{Text: s}
}

// Parts builds multi-part content.
func Parts(parts ...Part) Content {
	return Content{Parts: parts}
}

// TextPart builds a text part for use inside Parts.
func TextPart(s string) Part {
	return Part{Type: PartText, Text: s}
}

// ImagePart builds an image part referencing url.
func ImagePart(url string) Part {
	return Part{Type: PartImage, URL: url}
}

// IsParts reports whether the content is a part sequence.
func (c Content) IsParts() bool {
	return len(c.Parts) > 0
}

// IsEmpty reports whether the content carries neither text nor parts.
func (c Content) IsEmpty() bool {
	return c.Text == "" && len(c.Parts) == 0
}

// String flattens the content to plain text. Non-text parts contribute
// their URL so the result stays human readable.
func (c Content) String() string {
	if !c.IsParts() {
		return c.Text
	}
	var b strings.Builder
	for _, p := range c.Parts {
		if p.Type == PartText {
			b.WriteString(p.Text)
		} else {
			b.WriteString(p.URL)
		}
	}
	return b.String()
}
