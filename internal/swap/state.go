package swap

import "github.com/aman-zulfiqar/currency-swap/internal/catalog"

// State is the swap form's selection. Transitions return a new State and never modify
// the receiver.
type State struct {
	From     *catalog.Asset `json:"from,omitempty"`
	To       *catalog.Asset `json:"to,omitempty"`
	Settings Settings       `json:"settings"`
}

func NewState() State {
	return State{Settings: DefaultSettings()}
}

// Selected returns the asset chosen for side, or nil.
func (s State) Selected(side Side) *catalog.Asset {
	if side == SideFrom {
		return s.From
	}
	return s.To
}

// Select puts asset on side. Both sides never hold the same token: picking the asset
// already chosen on the other side flips the pair, or moves the asset over when side
// is still empty.
func (s State) Select(side Side, asset catalog.Asset) State {
	if other := s.Selected(side.Other()); other != nil && other.Symbol == asset.Symbol {
		if s.Selected(side) != nil {
			return s.Flip()
		}
		s.From, s.To = s.To, s.From
		return s
	}
	a := asset
	if side == SideFrom {
		s.From = &a
	} else {
		s.To = &a
	}
	return s
}

// Flip exchanges the two sides. It is a no-op until both sides are chosen.
func (s State) Flip() State {
	if s.From == nil || s.To == nil {
		return s
	}
	s.From, s.To = s.To, s.From
	return s
}

// WithSettings replaces the settings after validating them.
func (s State) WithSettings(st Settings) (State, error) {
	if err := st.Validate(); err != nil {
		return s, err
	}
	s.Settings = st
	return s, nil
}

// Reset clears both selections and keeps the settings.
func (s State) Reset() State {
	return State{Settings: s.Settings}
}

// Ready reports whether both sides are chosen.
func (s State) Ready() bool {
	return s.From != nil && s.To != nil
}

// Request builds a swap request for amount from the current selection.
func (s State) Request(amount float64) (Request, error) {
	if !s.Ready() {
		return Request{}, ErrAssetRequired
	}
	return Request{From: s.From.Symbol, To: s.To.Symbol, Amount: amount, Settings: s.Settings}, nil
}
