// activity/connections.go
package activity

// Connections tracks in-flight term/match selections for a matching
// activity while the learner composes an answer. At most one connection per
// term and per match exists at any time, so the composed response is always
// a partial bijection even before submission.
type Connections struct {
	byTerm  map[string]string
	byMatch map[string]string
}

func NewConnections() *Connections {
	return &Connections{
		byTerm:  map[string]string{},
		byMatch: map[string]string{},
	}
}

// Connect links a term to a match. Reselecting the term's current match
// disconnects it (toggle). Choosing a match already held by another term
// re-assigns it, freeing the previous term.
func (c *Connections) Connect(termID, matchID string) {
	if c.byTerm[termID] == matchID {
		c.Disconnect(termID)
		return
	}
	if prevTerm, taken := c.byMatch[matchID]; taken {
		delete(c.byTerm, prevTerm)
	}
	if prevMatch, connected := c.byTerm[termID]; connected {
		delete(c.byMatch, prevMatch)
	}
	c.byTerm[termID] = matchID
	c.byMatch[matchID] = termID
}

func (c *Connections) Disconnect(termID string) {
	if matchID, ok := c.byTerm[termID]; ok {
		delete(c.byMatch, matchID)
		delete(c.byTerm, termID)
	}
}

func (c *Connections) Match(termID string) (string, bool) {
	matchID, ok := c.byTerm[termID]
	return matchID, ok
}

func (c *Connections) Len() int {
	return len(c.byTerm)
}

// Response snapshots the current connections into a judgeable response.
func (c *Connections) Response() Response {
	connections := make(map[string]string, len(c.byTerm))
	for termID, matchID := range c.byTerm {
		connections[termID] = matchID
	}
	return Response{Connections: connections}
}

// Clear drops every connection, used when an incorrect submission moves the
// activity into its retry state.
func (c *Connections) Clear() {
	c.byTerm = map[string]string{}
	c.byMatch = map[string]string{}
}
