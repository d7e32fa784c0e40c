package plugin

// Error is a simple error type for plugin registration errors.
// It allows defining sentinel errors as constants.
type Error string

// Error implements the error interface.
func (e Error) Error() string { return string(e) }

// Sentinel errors returned by Registry.Register.
const (
	// ErrNilMock is returned when a plugin wraps a nil implementation.
	ErrNilMock = Error("plugin implementation cannot be nil")

	// ErrEmptyName is returned when a plugin has no name.
	ErrEmptyName = Error("plugin name cannot be empty")

	// ErrUnknownKind is returned for a zero Plugin or one of an unknown kind.
	ErrUnknownKind = Error("plugin kind is unknown")

	// ErrDuplicatePlugin is returned when a name is registered twice.
	ErrDuplicatePlugin = Error("plugin with this name already exists")

	// ErrEmptyDomain is returned when a domain mock reports no domain.
	ErrEmptyDomain = Error("domain mock has an empty domain")

	// ErrInvalidDomain is returned when a domain cannot be used as a host
	// name and path segment.
	ErrInvalidDomain = Error("domain mock has an invalid domain")

	// ErrDuplicateDomain is returned when two domain mocks claim the same domain.
	ErrDuplicateDomain = Error("domain already claimed by another plugin")

	// ErrNilResource is returned when a domain mock has no resource.
	ErrNilResource = Error("domain mock returned a nil resource")

	// ErrPluginNotFound is returned when looking up an unregistered name.
	ErrPluginNotFound = Error("plugin not found")
)
