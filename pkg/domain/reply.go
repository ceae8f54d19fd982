package domain

// Reply is what one dialog step produces: the prompt text and whether
// the gateway should keep the session open.
type Reply struct {
	Text     string
	Terminal bool
}

// Continue builds a reply that keeps the session open.
func Continue(text string) Reply {
	return Reply{Text: text}
}

// Terminate builds a reply that closes the session.
func Terminate(text string) Reply {
	return Reply{Text: text, Terminal: true}
}

// Render wraps the prompt with the gateway continuation tag. The body
// always starts with exactly one of "CON " or "END ".
func (r Reply) Render() string {
	if r.Terminal {
		return "END " + r.Text
	}
	return "CON " + r.Text
}
