package domain

import "errors"

var (
	// ErrEmptyRoomName is returned when a room name is blank.
	ErrEmptyRoomName = errors.New("room name cannot be empty")
	// ErrEmptyUsername is returned when a username is blank.
	ErrEmptyUsername = errors.New("username cannot be empty")
	// ErrRoomNotFound is returned when no room exists under the given name.
	ErrRoomNotFound = errors.New("room does not exist")
	// ErrRoomClosed is returned when acting on a room that has already ended.
	ErrRoomClosed = errors.New("room has ended")
	// ErrUserNotFound is returned when a user tries to act before joining.
	ErrUserNotFound = errors.New("user not found in room")
	// ErrNameInUse is returned when a connected user already holds the name.
	ErrNameInUse = errors.New("username already taken in this room")
	// ErrNotCreator is returned when a non-creator attempts a creator-only action.
	ErrNotCreator = errors.New("only the room creator can do that")
	// ErrQuestionActive is returned when a question is started while another is open.
	ErrQuestionActive = errors.New("a question is already active")
	// ErrNoActiveQuestion is returned when answering with no open question.
	ErrNoActiveQuestion = errors.New("no active question")
	// ErrInvalidOption indicates a submitted option index is out of range.
	ErrInvalidOption = errors.New("option index out of range")
	// ErrInvalidQuestion indicates a malformed question definition.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrPresetNotFound indicates the question preset could not be loaded.
	ErrPresetNotFound = errors.New("question preset not found")
)
