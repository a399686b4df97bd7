package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Directive Errors (W001-W019)
	// ============================================

	"W001": {
		Category: CategoryDirective,
		Message:  "Malformed directive",
		Detail:   "The attribute name starts with a directive prefix but is not closed (for example \"(click\" or \"[name\").",
		DocURL:   "https://weft.dev/docs/errors/W001",
	},
	"W002": {
		Category: CategoryDirective,
		Message:  "Directive on a node without component",
		Detail:   "Event and formatting directives are resolved against the owning component. The node has no component in its ancestry.",
		DocURL:   "https://weft.dev/docs/errors/W002",
	},
	"W003": {
		Category: CategoryDirective,
		Message:  "Unknown node method",
		Detail:   "A *name directive names a method that nodes do not expose.",
		DocURL:   "https://weft.dev/docs/errors/W003",
	},

	// ============================================
	// Binding Errors (W020-W039)
	// ============================================

	"W020": {
		Category: CategoryBinding,
		Message:  "Handler not found",
		Detail:   "The component has no handler or binding registered under the referenced name.",
		DocURL:   "https://weft.dev/docs/errors/W020",
	},
	"W021": {
		Category: CategoryBinding,
		Message:  "Unsupported handler type",
		Detail:   "Event handlers must be func(), func(...any), func(dom.Event) or func(dom.Event, ...any).",
		DocURL:   "https://weft.dev/docs/errors/W021",
	},
	"W022": {
		Category: CategoryBinding,
		Message:  "Malformed handler call",
		Detail:   "A handler value ending in ')' must have the form name(arg, ...).",
		DocURL:   "https://weft.dev/docs/errors/W022",
	},
	"W023": {
		Category: CategoryBinding,
		Message:  "Missing binding target",
		Detail:   "A binding helper was applied without a target event, attribute, style property or class name.",
		DocURL:   "https://weft.dev/docs/errors/W023",
	},
	"W024": {
		Category: CategoryBinding,
		Message:  "Text format failed",
		Detail:   "The text template could not be filled from the bound arguments. The text field was left unchanged.",
		DocURL:   "https://weft.dev/docs/errors/W024",
	},

	// ============================================
	// Scope Errors (W040-W059)
	// ============================================

	"W040": {
		Category: CategoryScope,
		Message:  "Construction stack underflow",
		Detail:   "A scope was exited more often than it was entered. The root node can never be popped.",
		DocURL:   "https://weft.dev/docs/errors/W040",
	},
	"W041": {
		Category: CategoryScope,
		Message:  "Construction body failed",
		Detail:   "The body of a construction scope returned an error. Nodes queued inside it were left for an enclosing scope to start.",
		DocURL:   "https://weft.dev/docs/errors/W041",
	},

	// ============================================
	// Source Errors (W060-W079)
	// ============================================

	"W060": {
		Category: CategorySource,
		Message:  "Source has no value",
		Detail:   "The reactive source has not produced a value yet. An empty value is used until it emits.",
		DocURL:   "https://weft.dev/docs/errors/W060",
	},
	"W061": {
		Category: CategorySource,
		Message:  "Source is not writable",
		Detail:   "A publish binding targeted a value that cannot receive emissions.",
		DocURL:   "https://weft.dev/docs/errors/W061",
	},

	// ============================================
	// Platform Errors (W080-W099)
	// ============================================

	"W080": {
		Category: CategoryAttribute,
		Message:  "Attribute refused",
		Detail:   "The node kind does not accept attributes (text nodes, or nodes without a component to scope to).",
		DocURL:   "https://weft.dev/docs/errors/W080",
	},
	"W081": {
		Category: CategoryStyle,
		Message:  "Style property refused",
		Detail:   "The platform rejected the style property name or value.",
		DocURL:   "https://weft.dev/docs/errors/W081",
	},
	"W082": {
		Category: CategoryAttribute,
		Message:  "Text field refused",
		Detail:   "The element rejected the formatted text for its text field.",
		DocURL:   "https://weft.dev/docs/errors/W082",
	},

	// ============================================
	// Config Errors (W120-W139)
	// ============================================

	"W120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "weft.json or weft.yaml could not be read or parsed.",
		DocURL:   "https://weft.dev/docs/errors/W120",
	},
	"W121": {
		Category: CategoryConfig,
		Message:  "Invalid inspector address",
		Detail:   "inspect.addr must have the form host:port.",
		DocURL:   "https://weft.dev/docs/errors/W121",
	},
	"W122": {
		Category: CategoryConfig,
		Message:  "Invalid snapshot target",
		Detail:   "snapshot.target must be a directory path or an s3://bucket/prefix URL.",
		DocURL:   "https://weft.dev/docs/errors/W122",
	},

	// ============================================
	// Snapshot Errors (W140-W159)
	// ============================================

	"W140": {
		Category: CategorySnapshot,
		Message:  "Snapshot write failed",
		Detail:   "The snapshot document could not be stored.",
		DocURL:   "https://weft.dev/docs/errors/W140",
	},

	// ============================================
	// CLI Errors (W160-W179)
	// ============================================

	"W160": {
		Category: CategoryCLI,
		Message:  "Unknown demo",
		Detail:   "The requested demo application does not exist. Run 'weft demo --list'.",
		DocURL:   "https://weft.dev/docs/errors/W160",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
