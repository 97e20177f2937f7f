package sim

// Message is a single simulated email. The agent address is fixed; every
// other address belongs to a supplier.
type Message struct {
	ID      string
	From    string
	To      string
	Subject string
	Body    string
	DaySent int
	Read    bool
}

// AgentAddr is the agent's own mailbox address.
const AgentAddr = "agent"

// Mailbox is an append-only, in-order message log. Messages are never
// truncated or evicted mid-episode; growth is bounded by episode length.
type Mailbox struct {
	messages []*Message
}

// Append adds a message to the end of the mailbox.
func (mb *Mailbox) Append(m *Message) {
	mb.messages = append(mb.messages, m)
}

// Len returns the number of messages in the mailbox.
func (mb *Mailbox) Len() int {
	return len(mb.messages)
}

// Unread returns the number of unread messages.
func (mb *Mailbox) Unread() int {
	n := 0
	for _, m := range mb.messages {
		if !m.Read {
			n++
		}
	}
	return n
}

// Recent returns up to n most recent messages, oldest first.
func (mb *Mailbox) Recent(n int) []*Message {
	if n <= 0 || n > len(mb.messages) {
		n = len(mb.messages)
	}
	return mb.messages[len(mb.messages)-n:]
}

// Messages returns the full log for iteration. Callers must not mutate
// the slice structure; marking individual messages read is fine.
func (mb *Mailbox) Messages() []*Message {
	return mb.messages
}
