package actors

import "Civilization/internal/shared/actor/messages"

func fail(err error) *messages.GHFail {
	return &messages.GHFail{Err: err}
}
