package game

// Messages holds the announcement templates a session feeds to its
// Notifier. Templates are fmt format strings.
type Messages struct {
	NextRound     string // %d = seconds until next round
	TitleFound    string // %s = finder display name
	AuthorFound   string // %s = finder display name
	SummaryHeader string
}

// DefaultMessages returns the built-in announcement templates.
func DefaultMessages() Messages {
	return Messages{
		NextRound:     "Next round in %d seconds.",
		TitleFound:    "%s found the title!",
		AuthorFound:   "%s found the artist!",
		SummaryHeader: "Final scores:",
	}
}

// merged returns m with empty fields filled from the defaults.
func (m Messages) merged() Messages {
	def := DefaultMessages()
	if m.NextRound == "" {
		m.NextRound = def.NextRound
	}
	if m.TitleFound == "" {
		m.TitleFound = def.TitleFound
	}
	if m.AuthorFound == "" {
		m.AuthorFound = def.AuthorFound
	}
	if m.SummaryHeader == "" {
		m.SummaryHeader = def.SummaryHeader
	}
	return m
}
