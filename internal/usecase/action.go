package usecase

// Action is the closed set of inbound gateway actions. Dispatch switches
// exhaustively over this type, so a new action is a compile-time change
// rather than a string falling through to a default.
type Action int

const (
	ActionUpload Action = iota
	ActionCreatePost
	ActionGetPost
)

// ParseAction maps a route segment onto an Action.
func ParseAction(name string) (Action, bool) {
	switch name {
	case "upload":
		return ActionUpload, true
	case "create-post":
		return ActionCreatePost, true
	case "get-post":
		return ActionGetPost, true
	default:
		return 0, false
	}
}

func (a Action) String() string {
	switch a {
	case ActionUpload:
		return "upload"
	case ActionCreatePost:
		return "create-post"
	case ActionGetPost:
		return "get-post"
	default:
		return "unknown"
	}
}
