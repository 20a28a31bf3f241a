package checkpointer

import (
	"fmt"

	ts "github.com/tse-jeff/OpenAI-Gym-Car-Race/timestep"
)

// nStep implements checkpointing every N steps
type nStep struct {
	interval int
	object   Serializable // Object to save
	steps    int

	// filename returns the filename of the next checkpoint. To save each
	// checkpoint in its own file, use FilenameEnumerator.
	filename func() string
}

// NewNStep returns a checkpointer that checkpoints every n steps taken
// in the experiment, counted across episodes
func NewNStep(n int, object Serializable,
	filename func() string) (Checkpointer, error) {
	if n <= 0 {
		return nil, fmt.Errorf("newNStep: interval must be positive, have %d",
			n)
	}

	return &nStep{
		interval: n,
		object:   object,
		filename: filename,
	}, nil
}

// Checkpoint checkpoints the Checkpointer's tracked object by calling
// its Save() method
func (n *nStep) Checkpoint(t ts.TimeStep) error {
	if t.First() {
		return nil
	}

	n.steps++
	if n.steps%n.interval == 0 {
		return n.object.Save(n.filename())
	}
	return nil
}
