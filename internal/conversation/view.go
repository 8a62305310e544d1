package conversation

import (
	"time"

	"heartlink/internal/model"
)

// MessageView is a message ready for rendering.
type MessageView struct {
	model.Message
	IsMine bool   `json:"isMine"`
	Status string `json:"status"`
}

// GroupView is a day group ready for rendering.
type GroupView struct {
	Label    string        `json:"label"`
	Messages []MessageView `json:"messages"`
}

// View is a consistent snapshot of the open conversation.
type View struct {
	MatchID      string             `json:"matchId"`
	Participant  *model.Participant `json:"participant,omitempty"`
	Title        string             `json:"title"`
	Initials     string             `json:"initials"`
	Loading      bool               `json:"loading"`
	LoadError    string             `json:"loadError,omitempty"`
	Draft        string             `json:"draft"`
	SendInFlight bool               `json:"sendInFlight"`
	Groups       []GroupView        `json:"groups"`
}

// Messages returns a copy of the current message list.
func (vm *ViewModel) Messages() []model.Message {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return append([]model.Message(nil), vm.messages...)
}

// Participant returns the other participant, or nil if not resolved.
func (vm *ViewModel) Participant() *model.Participant {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.participant == nil {
		return nil
	}
	p := *vm.participant
	return &p
}

// MatchID returns the open conversation, or "".
func (vm *ViewModel) MatchID() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.matchID
}

// LoadError returns the last initial-load failure.
func (vm *ViewModel) LoadError() error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.loadError
}

// Draft returns the composer text.
func (vm *ViewModel) Draft() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.draft
}

// SendInFlight reports whether any send is awaiting the API.
func (vm *ViewModel) SendInFlight() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return len(vm.pending) > 0
}

// IsMine classifies msg against the current participant.
func (vm *ViewModel) IsMine(msg model.Message) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return IsMine(msg, vm.participant)
}

// View renders the whole conversation from one locked snapshot. now's
// location decides calendar days; confirmed messages are labelled with their
// age relative to now.
func (vm *ViewModel) View(now time.Time, labels *Labels) View {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	v := View{
		MatchID:      vm.matchID,
		Title:        labels.YourMatch(),
		Initials:     model.Participant{}.Initials(),
		Loading:      vm.loading,
		Draft:        vm.draft,
		SendInFlight: len(vm.pending) > 0,
		Groups:       []GroupView{},
	}
	if vm.participant != nil {
		p := *vm.participant
		v.Participant = &p
		v.Initials = p.Initials()
		if p.Name != "" {
			v.Title = p.Name
		}
	}
	if vm.loadError != nil {
		v.LoadError = vm.loadError.Error()
	}

	for _, g := range ComputeDayGroups(vm.messages, now, labels) {
		gv := GroupView{Label: g.Key, Messages: make([]MessageView, 0, len(g.Messages))}
		for _, msg := range g.Messages {
			gv.Messages = append(gv.Messages, MessageView{
				Message: msg,
				IsMine:  IsMine(msg, vm.participant),
				Status:  statusLabel(msg, now, labels),
			})
		}
		v.Groups = append(v.Groups, gv)
	}
	return v
}

func statusLabel(msg model.Message, now time.Time, labels *Labels) string {
	switch msg.DeliveryState {
	case model.DeliveryPending:
		return labels.Sending()
	case model.DeliveryFailed:
		return labels.Failed()
	}
	created, ok := msg.CreatedTime()
	if !ok {
		return labels.JustNow()
	}
	return labels.Ago(created, now)
}
