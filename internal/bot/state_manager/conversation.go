package state_manager

import (
	"context"
	"fmt"
	"strings"

	"order-relay-bot/pkg/models"
)

// CommandPrefix marks text that is never captured as an answer.
const CommandPrefix = "/"

// Outcome describes what Answer did with a message.
type Outcome struct {
	// Consumed is false when the text was not part of a conversation.
	Consumed bool
	// Next is the stage the user is now in. Empty once the conversation ended.
	Next models.Stage
	// Completed is set when both answers were collected.
	Completed bool
	SideOne   string
	SideTwo   string
}

// Conversation walks a user through the two order questions.
type Conversation struct {
	store Store
}

func NewConversation(store Store) *Conversation {
	return &Conversation{store: store}
}

// Start opens a conversation for the user, discarding any previous answers.
func (c *Conversation) Start(ctx context.Context, userID int64) error {
	if err := c.store.Set(ctx, userID, &models.UserState{Stage: models.StageAwaitingSideOne}); err != nil {
		return fmt.Errorf("start conversation: %w", err)
	}
	return nil
}

// Answer feeds a text message into the user's conversation.
func (c *Conversation) Answer(ctx context.Context, userID int64, text string) (Outcome, error) {
	if strings.HasPrefix(text, CommandPrefix) {
		return Outcome{}, nil
	}

	state, err := c.store.Get(ctx, userID)
	if err != nil {
		return Outcome{}, fmt.Errorf("get conversation: %w", err)
	}
	if state == nil {
		return Outcome{}, nil
	}

	switch state.Stage {
	case models.StageAwaitingSideOne:
		sideOne := text
		state.SideOne = &sideOne
		state.Stage = models.StageAwaitingSideTwo
		if err := c.store.Set(ctx, userID, state); err != nil {
			return Outcome{}, fmt.Errorf("save first answer: %w", err)
		}
		return Outcome{Consumed: true, Next: models.StageAwaitingSideTwo}, nil

	case models.StageAwaitingSideTwo:
		// the conversation ends here whatever happens to the order afterwards
		if err := c.store.Drop(ctx, userID); err != nil {
			return Outcome{}, fmt.Errorf("finish conversation: %w", err)
		}
		var sideOne string
		if state.SideOne != nil {
			sideOne = *state.SideOne
		}
		return Outcome{
			Consumed:  true,
			Completed: true,
			SideOne:   sideOne,
			SideTwo:   text,
		}, nil

	default:
		if err := c.store.Drop(ctx, userID); err != nil {
			return Outcome{}, fmt.Errorf("drop unknown stage %q: %w", state.Stage, err)
		}
		return Outcome{}, nil
	}
}
