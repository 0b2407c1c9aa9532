package credential

// Kind classifies the result of a Service operation
type Kind int

const (
	// KindSuccess means the operation completed
	KindSuccess Kind = iota
	// KindEmptyInput means the username or password was blank
	KindEmptyInput
	// KindDuplicateUser means the username is already registered
	KindDuplicateUser
	// KindUnknownUser means the username is not registered
	KindUnknownUser
	// KindWrongPassword means the password did not match
	KindWrongPassword
	// KindNothingToClear means there was no store to delete
	KindNothingToClear
	// KindPersistenceFailure means the store could not be read or written
	KindPersistenceFailure
	// KindHashingFailure means the password could not be hashed
	KindHashingFailure
)

var kindNames = map[Kind]string{
	KindSuccess:            "success",
	KindEmptyInput:         "empty_input",
	KindDuplicateUser:      "duplicate_user",
	KindUnknownUser:        "unknown_user",
	KindWrongPassword:      "wrong_password",
	KindNothingToClear:     "nothing_to_clear",
	KindPersistenceFailure: "persistence_failure",
	KindHashingFailure:     "hashing_failure",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Messages shown to the user for each outcome
const (
	MsgEmptyInput        = "Username and password cannot be empty"
	MsgDuplicateUser     = "Username already exists"
	MsgRegistered        = "Username created successfully"
	MsgUnknownUser       = "Username does not exist"
	MsgVerified          = "Password verified successfully"
	MsgWrongPassword     = "Incorrect password"
	MsgCleared           = "User data file cleared"
	MsgNothingToClear    = "User data file does not exist"
	MsgPersistenceFailed = "User data file could not be accessed"
	MsgHashingFailed     = "Password could not be stored"
)

// Outcome is the result of a Service operation. Message is suitable for
// direct display. Err carries the underlying cause for failure kinds that
// have one.
type Outcome struct {
	Kind    Kind
	Message string
	Err     error
}

// OK reports whether the operation succeeded
func (o Outcome) OK() bool {
	return o.Kind == KindSuccess
}

func success(msg string) Outcome {
	return Outcome{Kind: KindSuccess, Message: msg}
}

func failure(kind Kind, msg string, err error) Outcome {
	return Outcome{Kind: kind, Message: msg, Err: err}
}
