package domain

import "strings"

// EventKind identifies the host event that carried a message.
type EventKind string

const (
	EventPrivateMessage EventKind = "private_message"
	EventGroupMessage   EventKind = "group_message"
)

// IsMessage reports whether the event kind carries a chat message the plugin reacts to.
func (k EventKind) IsMessage() bool {
	return k == EventPrivateMessage || k == EventGroupMessage
}

// SegmentType is the kind of a single message chain part.
type SegmentType string

const (
	SegmentText  SegmentType = "text"
	SegmentImage SegmentType = "image"
)

// Segment is one part of a message chain.
type Segment struct {
	Type SegmentType `json:"type"`
	Text string      `json:"text,omitempty"`
	URL  string      `json:"url,omitempty"`
}

// TextSegment builds a plain text part.
func TextSegment(text string) Segment { return Segment{Type: SegmentText, Text: text} }

// ImageSegment builds an image part referenced by URL.
func ImageSegment(url string) Segment { return Segment{Type: SegmentImage, URL: url} }

// MessageChain is an ordered list of message parts, as delivered and accepted by the host.
type MessageChain []Segment

// String renders the chain as the text the link matcher scans.
// Non-text parts render as a short placeholder so they never form a link.
func (c MessageChain) String() string {
	var b strings.Builder
	for _, seg := range c {
		switch seg.Type {
		case SegmentText:
			b.WriteString(seg.Text)
		case SegmentImage:
			b.WriteString("[Image]")
		}
	}
	return b.String()
}

// Images returns the number of image parts in the chain.
func (c MessageChain) Images() int {
	n := 0
	for _, seg := range c {
		if seg.Type == SegmentImage {
			n++
		}
	}
	return n
}

// Event is an inbound host event.
type Event struct {
	ID       string       `json:"id"`
	Kind     EventKind    `json:"kind"`
	ChatID   string       `json:"chat_id,omitempty"`
	SenderID string       `json:"sender_id,omitempty"`
	Message  MessageChain `json:"message"`
}

// Reply is the formatted answer to one matched link.
type Reply struct {
	Text     string `json:"text"`
	ImageURL string `json:"image_url,omitempty"`
}

// Chain renders the reply as zero or one image part followed by one text part.
func (r Reply) Chain() MessageChain {
	chain := make(MessageChain, 0, 2)
	if r.ImageURL != "" {
		chain = append(chain, ImageSegment(r.ImageURL))
	}
	return append(chain, TextSegment(r.Text))
}
