package errors

const (
	NoTokenError       = "Access denied. No token provided."
	InvalidTokenError  = "Invalid token."
	ExpiredTokenError  = "Token has expired."
	UserExistsError    = "User already exists"
	InvalidCredentials = "Invalid email or password"

	OnlyOwnersAddError    = "Access denied. Only House Owners can add houses."
	OnlyOwnersUpdateError = "Access denied. Only House Owners can update houses."
	OnlyOwnersDeleteError = "Access denied. Only House Owners can delete houses."
	OnlyRentersBookError  = "Access denied. Only House Renters can book houses."
	OnlyRentersRemError   = "Access denied. Only House Renters can remove bookings."

	BookingLimitError = "Maximum booking limit reached. You cannot book more houses."
	HouseNotFound     = "House not found"
	BookingNotFound   = "Booking not found"

	InvalidRequestFormatError = "Invalid request format"
	InternalServerError       = "Internal server error"
)
