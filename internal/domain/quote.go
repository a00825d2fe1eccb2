package domain

import "strings"

// Quote is a quotation returned by the quote service.
// Citation and CitationURL are nil when the service reports null.
type Quote struct {
	// Text is the body of the quote.
	Text string

	// Citation is optional attribution text, such as an episode or book title.
	Citation *string

	// CitationURL is an optional link for the attribution.
	CitationURL *string

	// Source is the character the quote belongs to.
	Source Source
}

// Attribution returns the attribution line for the quote:
// "--- {name}" optionally followed by ", {citation}" where the citation is a
// markdown link when a URL is present.
func (q *Quote) Attribution() string {
	name := "--- " + q.Source.Name

	var cite string

	hasURL := q.CitationURL != nil && *q.CitationURL != ""

	switch {
	case hasURL && q.Citation != nil:
		cite = "[" + *q.Citation + "](" + *q.CitationURL + ")"
	case hasURL:
		cite = "[" + *q.CitationURL + "](" + *q.CitationURL + ")"
	case q.Citation != nil:
		cite = *q.Citation
	}

	if cite == "" {
		return name
	}

	return name + ", " + cite
}

// Source is a character that owns a collection of quotes.
type Source struct {
	// Name is the display name.
	Name string

	// Slug identifies the source remotely, in the form "{group}-{name}".
	Slug string
}

// ShortName returns the slug with the group prefix stripped.
// Slugs outside the group are returned unchanged.
func (s Source) ShortName(group string) string {
	return strings.TrimPrefix(s.Slug, GroupPrefix(group))
}

// Sentence is text generated by the quote service from existing quotes.
type Sentence struct {
	Text string
}

// GroupPrefix returns the slug prefix shared by all sources in a group.
func GroupPrefix(group string) string {
	return group + "-"
}

// SourceSlug builds the slug for a character name typed by a user.
// Character names are case-insensitive.
func SourceSlug(group, character string) string {
	return GroupPrefix(group) + strings.ToLower(character)
}
