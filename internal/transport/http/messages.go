package http

import "pixel-poll-service/internal/domain"

// MessageType names a message on the room channel.
type MessageType string

// Client -> server
const (
	MsgStartQuestion MessageType = "StartQuestion"
	MsgSubmitAnswer  MessageType = "SubmitAnswer"
	MsgEndQuestion   MessageType = "EndQuestion"
	MsgEndRoom       MessageType = "EndRoom"
)

// Server -> client
const (
	MsgJoinError       MessageType = "JoinError"
	MsgUserInfo        MessageType = "UserInfo"
	MsgUserJoined      MessageType = "UserJoined"
	MsgUserLeft        MessageType = "UserLeft"
	MsgQuestionStarted MessageType = "QuestionStarted"
	MsgQuestionEnded   MessageType = "QuestionEnded"
	MsgRoomEnded       MessageType = "RoomEnded"
	MsgError           MessageType = "Error"
)

// inboundMessage is the union of all client messages; fields unused by a
// given type are left empty.
type inboundMessage struct {
	Type     MessageType      `json:"type"`
	Question *domain.Question `json:"question,omitempty"`
	PresetID string           `json:"presetId,omitempty"`
	Answer   *int             `json:"answer,omitempty"`
}

type joinErrorMessage struct {
	Type   MessageType `json:"type"`
	Reason string      `json:"reason"`
}

type userInfoMessage struct {
	Type         MessageType `json:"type"`
	Username     string      `json:"username"`
	IsCreator    bool        `json:"isCreator"`
	CurrentUsers []string    `json:"currentUsers"`
}

type userEventMessage struct {
	Type     MessageType `json:"type"`
	Username string      `json:"username"`
}

type questionStartedMessage struct {
	Type     MessageType     `json:"type"`
	Question domain.Question `json:"question"`
}

type questionEndedMessage struct {
	Type    MessageType    `json:"type"`
	Results domain.Results `json:"results"`
}

type roomEndedMessage struct {
	Type      MessageType       `json:"type"`
	Reason    string            `json:"reason"`
	Standings []domain.Standing `json:"standings"`
}

type errorMessage struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}
