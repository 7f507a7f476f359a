// Package protocol defines the websocket wire format: flat JSON objects
// tagged by "type". Inbound frames decode into one concrete struct per type.
package protocol

type Type string

// Client to server.
const (
	TypeRequestAccess  Type = "request-room-access"
	TypeApproveAccess  Type = "approve-access"
	TypeRejectAccess   Type = "reject-access"
	TypeJoinRoom       Type = "join-room"
	TypeLeaveRoom      Type = "leave-room"
	TypeCodeChange     Type = "code-change"
	TypeLanguageUpdate Type = "language-update"
	TypeConsoleVisible Type = "console:visibility-change"
	TypeOutputVisible  Type = "console:output-visibility-change"
	TypeInputVisible   Type = "console:input-visibility-change"
	TypeConsoleHeight  Type = "console:height-change"
	TypeInputChange    Type = "input:change"
	TypeRunCode        Type = "run-code"
	TypeCursorPosition Type = "cursor-position"
	TypeChatMessage    Type = "chatMessage"
	TypeTyping         Type = "user:typing"
	TypeAskAI          Type = "askAI"
	TypeQueueStatus    Type = "queue-status"
	TypePing           Type = "ping"
)

// Server to client. Mutation echoes reuse the inbound names above, except
// code-change which is relayed as code-update.
const (
	TypeAccessApproved Type = "access-approved"
	TypeAccessRejected Type = "access-rejected"
	TypeRoomOwnerInfo  Type = "room-owner-info"
	TypeAccessRequest  Type = "access-request"
	TypeRoomState      Type = "room-state"
	TypeAllUsers       Type = "all-users"
	TypeUserJoined     Type = "user-joined"
	TypeUserLeft       Type = "user-left"
	TypeCodeUpdate     Type = "code-update"
	TypeCodeOutput     Type = "code-output"
	TypeCursorUpdate   Type = "cursor-update"
	TypeAIResponse     Type = "aiResponse"
	TypePong           Type = "pong"
)
