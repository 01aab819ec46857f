package domain

// User is a room member. Disconnecting keeps the record so a reconnect under
// the same name resumes points and creator status.
type User struct {
	Name      string
	Points    float64
	IsCreator bool
	Connected bool
}

// Answer is one user's choice for the active question.
type Answer struct {
	User                string
	OptionIndex         int
	SubmittedAtOffsetMs int64 // relative to the question start
}

// Standing is a snapshot-friendly view of a user's cumulative points.
type Standing struct {
	Username string  `json:"username"`
	Points   float64 `json:"points"`
}

// Results is the personalized outcome of a question for one recipient.
type Results interface {
	Kind() QuestionKind
}

// PollResults is shared by every recipient of the same poll.
type PollResults struct {
	Type       QuestionKind `json:"type"`
	Question   string       `json:"question"`
	Answers    []string     `json:"answers"`
	Votes      []int        `json:"votes"`
	TotalVotes int          `json:"totalVotes"`
}

func (PollResults) Kind() QuestionKind { return KindPoll }

// QuizResults differ per recipient only in UserScore.
type QuizResults struct {
	Type          QuestionKind `json:"type"`
	Question      string       `json:"question"`
	Answers       []string     `json:"answers"`
	CorrectAnswer int          `json:"correctAnswer"`
	Votes         []int        `json:"votes"`
	UserScore     float64      `json:"userScore"` // this question only, not the running total
	Standings     []Standing   `json:"standings"`
}

func (QuizResults) Kind() QuestionKind { return KindQuiz }

// Availability answers whether a room name can be created.
type Availability struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// Eligibility answers whether a user can join an existing room.
type Eligibility struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

// Reason codes carried by Availability, Eligibility and JoinError.
const (
	ReasonEmpty         = "empty"
	ReasonTaken         = "taken"
	ReasonEmptyUsername = "empty-username"
	ReasonNoRoom        = "no-room"
	ReasonNameInUse     = "name-in-use"
	ReasonRoomClosed    = "room-closed"
)

// Reasons carried by RoomEnded.
const (
	EndReasonCreatorEnded = "creator-ended"
	EndReasonCreatorLeft  = "creator-left"
)

// JoinResult is returned to a user that successfully entered a room.
type JoinResult struct {
	RoomID       string
	IsCreator    bool
	CurrentUsers []string
}

// DisconnectResult tells the transport what to announce after a user leaves.
type DisconnectResult struct {
	// RoomEnded is set when the creator left, which terminates the room.
	RoomEnded bool
	Standings []Standing
}
