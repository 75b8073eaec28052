package domain

// Action is one of the five progress actions that drive the item state
// machine. The interface is sealed: each action kind carries exactly
// its required payload, so a malformed action (an interact without a
// quality, say) is unrepresentable.
type Action interface {
	isAction()
}

// Expose records that a kana was shown to the learner without being
// answered.
type Expose struct{}

// Interact records an answered flashcard with a recall quality score
// in 0..5 (0 = complete blackout, 5 = perfect recall).
type Interact struct {
	Quality int
}

// Suspend removes the kana from active study while preserving history.
type Suspend struct{}

// Resume returns a suspended kana to active study.
type Resume struct{}

// Reset reinitializes the kana to its creation defaults, discarding
// all recorded history.
type Reset struct{}

func (Expose) isAction()   {}
func (Interact) isAction() {}
func (Suspend) isAction()  {}
func (Resume) isAction()   {}
func (Reset) isAction()    {}
