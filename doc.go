// Package themis provides typed, versioned configuration-as-code entities
// that serialize to the flat parameter lists a CI server stores.
//
// Every entity is, on the wire, an ordered list of string key/value pairs
// tagged with a type. Themis puts a typed layer on top of that list: kinds
// declare fields with concrete types, compound fields model closed variant
// sets, and validation reports every missing mandatory value with its full
// dotted path.
//
// # Parameter Store
//
// ParameterStore is the insertion-ordered string map behind each entity. It
// distinguishes an absent key from a key set to "". The type key and a kind's
// fixed provider markers are protected; once construction finishes the store
// is frozen. Rejected writes never panic, they become a sticky error that
// Entity.Wire and Validate surface.
//
// # Accessors
//
// Fields are small values bound to one wire key:
//
//	var (
//		host    = themis.String("host")
//		port    = themis.Int("port").Default(8080)
//		secure  = themis.Bool("tls", "use.tls").Values("true", "false")
//		token   = themis.Secret("token")                 // stored as "secure:token"
//		os      = themis.Enum("os", "", []OS{Linux, Windows}, map[OS]string{Linux: "linux"})
//	)
//
// Reads of a present but malformed int or enum return a *ConversionError.
// Values such as "%env.JDK%" are server placeholders and are stored verbatim
// by every accessor.
//
// # Kinds and Entities
//
// A Kind names the wire type, the fixed markers, the fields and which of them
// are mandatory. Kind.New copies an optional base entity, applies the fixed
// markers and runs the init block, in that order:
//
//	e, err := kind.New(base, func(e *themis.Entity) {
//		host.Set(e, "db.internal")
//		port.Set(e, 5432)
//	})
//
// # Compound Fields
//
// A compound stores only its discriminator under its own key; the fields of
// the chosen variant are flattened into the owning entity. Typed variants
// embed themis.Variant and are read back with a type switch.
//
// # Versions
//
// Kinds are published into a Registry under a version name. The version
// packages in versions/ publish from init(), so a blank import is enough:
//
//	import _ "github.com/agilira/themis/versions/v2019_2"
//
// A published kind is fingerprinted. Republishing the same shape is a no-op,
// and a different shape under the same version is rejected, which keeps the
// wire keys of a released version stable.
//
// # Documents and Wire Formats
//
// LoadDocument builds an ordered list of entities from a YAML or JSON
// document. Encoder writes entities as the server's JSON parameters payload,
// as ordered YAML or as a .properties file, optionally masking "secure:"
// values. DecodeParameters and Registry.Import read those formats back into
// typed entities.
//
// # Configuration and Audit
//
// Config is layered as defaults, then THEMIS_* environment variables, then
// command-line flags (FlashFlags). The optional AuditLogger records entity
// builds, validation outcomes, schema publication and rendering to SQLite or
// JSONL. Every AuditLogger method is safe on a nil receiver.
//
// Errors carry THEMIS_* codes from go-errors; use ErrorCode to read them.
//
// Repository: https://github.com/agilira/themis
package themis
