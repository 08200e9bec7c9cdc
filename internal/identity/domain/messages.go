package domain

// Client-facing error messages. Handlers and middleware reference these so
// the API wording stays consistent across endpoints.
const (
	MsgUserDeactivated  = "This user has been deactivated."
	MsgWrongCredentials = "A user with this email and password was not found."

	MsgInvalidToken       = "Invalid token"
	MsgInvalidTokenAction = "Invalid token action"
	MsgInvalidTokenUser   = "The user corresponding to the given token was not found."

	MsgUsernameExists = "user with this username already exists."
	MsgEmailExists    = "user with this email already exists."

	MsgWeakPassword    = "Ensure the password contains characters in both cases, digits and special characters"
	MsgPasswordNoMatch = "The passwords don't match"
	MsgPasswordIsWrong = "The old password is wrong"
	MsgPasswordTheSame = "The new password must be different from the old one"

	MsgFieldRequired = "This field is required."
	MsgInvalidEmail  = "Enter a valid email address."
	MsgNotFound      = "Not found."
)
