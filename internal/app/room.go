package app

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"pixel-poll-service/internal/domain"
)

// Room is the in-memory state of one named session. Every exported mutation
// holds mu for the whole event, so room transitions never interleave.
type Room struct {
	id   string
	name string
	now  func() time.Time

	mu     sync.Mutex
	users  map[string]*domain.User
	order  []string // join order, used for stable standings
	active *activeQuestion
	closed bool
}

type activeQuestion struct {
	question  domain.Question
	startedAt time.Time
	answers   map[string]domain.Answer
	order     []string // first submission order per user
}

// RoomState is a copy of a room's state for inspection.
type RoomState struct {
	ID        string
	Name      string
	Users     []domain.User
	Question  *domain.Question
	StartedAt time.Time
	Answers   []domain.Answer
	Closed    bool
}

// NewRoom creates an empty room on the wall clock. Room stores call it when a
// name is first joined.
func NewRoom(name string) *Room {
	return NewRoomWithClock(name, time.Now)
}

// NewRoomWithClock creates an empty room that stamps question starts and
// answers with now. Stores that need a controllable clock pass their own.
func NewRoomWithClock(name string, now func() time.Time) *Room {
	return &Room{
		id:    uuid.NewString(),
		name:  name,
		now:   now,
		users: make(map[string]*domain.User),
	}
}

// ID distinguishes this room from later rooms created under the same name.
func (r *Room) ID() string { return r.id }

// Name returns the room name.
func (r *Room) Name() string { return r.name }

// IsClosed reports whether the room has ended.
func (r *Room) IsClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *Room) join(username string) (domain.JoinResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return domain.JoinResult{}, domain.ErrRoomClosed
	}
	if user, ok := r.users[username]; ok {
		if user.Connected {
			return domain.JoinResult{}, domain.ErrNameInUse
		}
		user.Connected = true
	} else {
		r.users[username] = &domain.User{
			Name:      username,
			IsCreator: len(r.order) == 0,
			Connected: true,
		}
		r.order = append(r.order, username)
	}
	return domain.JoinResult{
		RoomID:       r.id,
		IsCreator:    r.users[username].IsCreator,
		CurrentUsers: r.connectedLocked(),
	}, nil
}

// disconnect marks the user offline. When the creator leaves the room ends and
// the final standings are returned.
func (r *Room) disconnect(username string) (domain.DisconnectResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return domain.DisconnectResult{}, domain.ErrRoomClosed
	}
	user, ok := r.users[username]
	if !ok {
		return domain.DisconnectResult{}, domain.ErrUserNotFound
	}
	user.Connected = false
	if !user.IsCreator {
		return domain.DisconnectResult{}, nil
	}
	return domain.DisconnectResult{RoomEnded: true, Standings: r.closeLocked()}, nil
}

func (r *Room) startQuestion(username string, question domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.authorizeLocked(username); err != nil {
		return err
	}
	if r.active != nil {
		return domain.ErrQuestionActive
	}
	if err := question.Validate(); err != nil {
		return err
	}
	question.Options = append([]string(nil), question.Options...)
	r.active = &activeQuestion{
		question:  question,
		startedAt: r.now(),
		answers:   make(map[string]domain.Answer),
	}
	return nil
}

func (r *Room) submitAnswer(username string, optionIndex int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return domain.ErrRoomClosed
	}
	if _, ok := r.users[username]; !ok {
		return domain.ErrUserNotFound
	}
	if r.active == nil {
		return domain.ErrNoActiveQuestion
	}
	if !r.active.question.HasOption(optionIndex) {
		return domain.ErrInvalidOption
	}

	if _, answered := r.active.answers[username]; !answered {
		r.active.order = append(r.active.order, username)
	}
	r.active.answers[username] = domain.Answer{
		User:                username,
		OptionIndex:         optionIndex,
		SubmittedAtOffsetMs: r.now().Sub(r.active.startedAt).Milliseconds(),
	}
	return nil
}

// endQuestion scores and clears the active question. ended is false, with no
// error, when there was nothing to end.
func (r *Room) endQuestion(username string) (map[string]domain.Results, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.authorizeLocked(username); err != nil {
		return nil, false, err
	}
	if r.active == nil {
		return nil, false, nil
	}

	results, updated := ScoreQuestion(r.active.question, r.answersLocked(), r.usersLocked())
	for _, u := range updated {
		r.users[u.Name].Points = u.Points
	}
	r.active = nil
	return results, true, nil
}

// end terminates the room on the creator's request.
func (r *Room) end(username string) ([]domain.Standing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.authorizeLocked(username); err != nil {
		return nil, err
	}
	return r.closeLocked(), nil
}

// authorize checks that username may drive the room without changing it.
func (r *Room) authorize(username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.authorizeLocked(username)
}

func (r *Room) standings() []domain.Standing {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Standings(r.usersLocked())
}

func (r *Room) connectedUsers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connectedLocked()
}

func (r *Room) hasConnectedUser(username string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[username]
	return ok && user.Connected
}

// State returns a deep copy of the room.
func (r *Room) State() RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := RoomState{
		ID:     r.id,
		Name:   r.name,
		Users:  r.usersLocked(),
		Closed: r.closed,
	}
	if r.active != nil {
		q := r.active.question
		q.Options = append([]string(nil), q.Options...)
		state.Question = &q
		state.StartedAt = r.active.startedAt
		state.Answers = r.answersLocked()
	}
	return state
}

func (r *Room) authorizeLocked(username string) error {
	if r.closed {
		return domain.ErrRoomClosed
	}
	user, ok := r.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	if !user.IsCreator {
		return domain.ErrNotCreator
	}
	return nil
}

func (r *Room) closeLocked() []domain.Standing {
	standings := Standings(r.usersLocked())
	r.closed = true
	r.active = nil
	return standings
}

func (r *Room) usersLocked() []domain.User {
	users := make([]domain.User, 0, len(r.order))
	for _, name := range r.order {
		users = append(users, *r.users[name])
	}
	return users
}

func (r *Room) answersLocked() []domain.Answer {
	answers := make([]domain.Answer, 0, len(r.active.order))
	for _, name := range r.active.order {
		answers = append(answers, r.active.answers[name])
	}
	return answers
}

func (r *Room) connectedLocked() []string {
	names := make([]string, 0, len(r.order))
	for _, name := range r.order {
		if r.users[name].Connected {
			names = append(names, name)
		}
	}
	return names
}
