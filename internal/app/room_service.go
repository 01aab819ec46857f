package app

import (
	"context"
	"errors"
	"strings"

	"pixel-poll-service/internal/domain"
)

// maxJoinAttempts bounds retries when a join races the room being ended.
const maxJoinAttempts = 3

// RoomRepository abstracts how live rooms are held (in-memory, Redis-marked, etc).
// Closed rooms are invisible to Get and replaced by GetOrCreate.
type RoomRepository interface {
	GetOrCreate(name string) *Room
	Get(name string) (*Room, bool)
	// Delete removes the room only if it is still the incarnation with the given ID.
	Delete(name, id string)
}

// PresetRepository loads stored questions (from cache/backing store).
type PresetRepository interface {
	GetPreset(ctx context.Context, presetID string) (domain.Question, error)
}

// RoomService contains the room use cases. Every method returns what should
// be delivered; it never talks to connections itself.
type RoomService struct {
	rooms   RoomRepository
	presets PresetRepository
}

func NewRoomService(rooms RoomRepository, presets PresetRepository) *RoomService {
	return &RoomService{rooms: rooms, presets: presets}
}

// CheckNameAvailable reports whether a new room can be created under name.
func (s *RoomService) CheckNameAvailable(name string) domain.Availability {
	if isBlank(name) {
		return domain.Availability{Reason: domain.ReasonEmpty}
	}
	if _, ok := s.rooms.Get(name); ok {
		return domain.Availability{Reason: domain.ReasonTaken}
	}
	return domain.Availability{Available: true}
}

// CheckJoinEligible reports whether username may enter the existing room.
// A disconnected user of the same name may rejoin.
func (s *RoomService) CheckJoinEligible(name, username string) domain.Eligibility {
	if isBlank(username) {
		return domain.Eligibility{Reason: domain.ReasonEmptyUsername}
	}
	room, ok := s.rooms.Get(name)
	if !ok {
		return domain.Eligibility{Reason: domain.ReasonNoRoom}
	}
	if room.hasConnectedUser(username) {
		return domain.Eligibility{Reason: domain.ReasonNameInUse}
	}
	return domain.Eligibility{Eligible: true}
}

// Join creates the room if absent, making the caller its creator, or attaches
// the user to it. A returning user resumes points and creator status.
func (s *RoomService) Join(_ context.Context, name, username string) (domain.JoinResult, error) {
	if isBlank(name) {
		return domain.JoinResult{}, domain.ErrEmptyRoomName
	}
	if isBlank(username) {
		return domain.JoinResult{}, domain.ErrEmptyUsername
	}
	for attempt := 0; attempt < maxJoinAttempts; attempt++ {
		res, err := s.rooms.GetOrCreate(name).join(username)
		if errors.Is(err, domain.ErrRoomClosed) {
			continue
		}
		return res, err
	}
	return domain.JoinResult{}, domain.ErrRoomClosed
}

// Disconnect marks the user offline in the room they joined.
// If the user was the creator the room ends and is removed.
func (s *RoomService) Disconnect(_ context.Context, name, roomID, username string) (domain.DisconnectResult, error) {
	room, err := s.joinedRoom(name, roomID)
	if err != nil {
		return domain.DisconnectResult{}, err
	}
	res, err := room.disconnect(username)
	if err != nil {
		return domain.DisconnectResult{}, err
	}
	if res.RoomEnded {
		s.rooms.Delete(name, room.ID())
	}
	return res, nil
}

// StartQuestion opens a question. It returns the participant view to broadcast.
func (s *RoomService) StartQuestion(_ context.Context, name, roomID, username string, question domain.Question) (domain.Question, error) {
	room, err := s.joinedRoom(name, roomID)
	if err != nil {
		return domain.Question{}, err
	}
	if err := room.startQuestion(username, question); err != nil {
		return domain.Question{}, err
	}
	return question.Public(), nil
}

// StartPreset opens a stored question by ID. Only the creator may look
// presets up.
func (s *RoomService) StartPreset(ctx context.Context, name, roomID, username, presetID string) (domain.Question, error) {
	room, err := s.joinedRoom(name, roomID)
	if err != nil {
		return domain.Question{}, err
	}
	if err := room.authorize(username); err != nil {
		return domain.Question{}, err
	}
	if s.presets == nil {
		return domain.Question{}, domain.ErrPresetNotFound
	}
	question, err := s.presets.GetPreset(ctx, presetID)
	if err != nil {
		return domain.Question{}, err
	}
	if err := room.startQuestion(username, question); err != nil {
		return domain.Question{}, err
	}
	return question.Public(), nil
}

// SubmitAnswer records or replaces the user's answer to the active question.
func (s *RoomService) SubmitAnswer(_ context.Context, name, roomID, username string, optionIndex int) error {
	room, err := s.joinedRoom(name, roomID)
	if err != nil {
		return err
	}
	return room.submitAnswer(username, optionIndex)
}

// EndQuestion closes the active question and returns each user's results.
// ended is false when no question was open; that is not an error.
func (s *RoomService) EndQuestion(_ context.Context, name, roomID, username string) (map[string]domain.Results, bool, error) {
	room, err := s.joinedRoom(name, roomID)
	if err != nil {
		return nil, false, err
	}
	return room.endQuestion(username)
}

// EndRoom terminates the room and returns the final standings.
func (s *RoomService) EndRoom(_ context.Context, name, roomID, username string) ([]domain.Standing, error) {
	room, err := s.joinedRoom(name, roomID)
	if err != nil {
		return nil, err
	}
	standings, err := room.end(username)
	if err != nil {
		return nil, err
	}
	s.rooms.Delete(name, room.ID())
	return standings, nil
}

// Standings returns every member of the room ranked by points.
func (s *RoomService) Standings(name string) ([]domain.Standing, error) {
	room, err := s.room(name)
	if err != nil {
		return nil, err
	}
	return room.standings(), nil
}

// ConnectedUsers lists the currently connected members in join order.
func (s *RoomService) ConnectedUsers(name string) []string {
	room, ok := s.rooms.Get(name)
	if !ok {
		return nil
	}
	return room.connectedUsers()
}

// RoomState returns a copy of the named room.
func (s *RoomService) RoomState(name string) (RoomState, error) {
	room, err := s.room(name)
	if err != nil {
		return RoomState{}, err
	}
	return room.State(), nil
}

func (s *RoomService) room(name string) (*Room, error) {
	room, ok := s.rooms.Get(name)
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}

// joinedRoom resolves the room incarnation a connection joined. A room that
// has since been replaced under the same name is reported as not found.
func (s *RoomService) joinedRoom(name, roomID string) (*Room, error) {
	room, err := s.room(name)
	if err != nil {
		return nil, err
	}
	if room.ID() != roomID {
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
