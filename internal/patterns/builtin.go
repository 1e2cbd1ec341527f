package patterns

// BuiltinRules is the default failure-signature table for Spring-Boot-style
// JVM services. Order matters: framework-specific signatures come first,
// generic JVM exceptions last, so that "error creating bean ... caused by
// NullPointerException" resolves to the bean rule rather than the NPE rule.
func BuiltinRules() []Rule {
	return []Rule{
		// Startup and wiring failures
		{
			Name:        "port-in-use",
			Signature:   `port \d+ (?:was |is )?already in use|address already in use|web server failed to start`,
			Title:       "Server port already in use",
			Description: "The embedded web server could not bind its listen port because another process already holds it. Often a previous instance of the same application that was never stopped.",
			Remediation: "Find the holder with `lsof -i :<port>` (or `netstat -ano` on Windows) and stop it, or change `server.port` in application properties.",
			Confidence:  0.95,
		},
		{
			Name:        "datasource-config",
			Signature:   `failed to configure a datasource|failed to determine a suitable driver class|jdbcurl is required`,
			Title:       "DataSource not configured",
			Description: "Spring could not build a DataSource: the JDBC URL, driver, or credentials are missing or the driver is not on the classpath.",
			Remediation: "Set `spring.datasource.url`, `username`, and `password`, and make sure the JDBC driver dependency is declared in the build file.",
			Confidence:  0.95,
		},
		{
			Name:        "db-connection",
			Signature:   `communications link failure|could not open jdbc connection|unable to obtain connection from database|hikaripool.*connection is not available`,
			Title:       "Database connection failed",
			Description: "The application could not reach the database: wrong host/port, database down, or the connection pool exhausted.",
			Remediation: "Verify the database is running and reachable from this host, check the JDBC URL, and review pool sizing (`spring.datasource.hikari.*`).",
			Confidence:  0.9,
		},
		{
			Name:        "flyway-migration",
			Signature:   `flywayexception|flyway.*migration .*failed|validate failed: migration`,
			Title:       "Flyway migration failed",
			Description: "A schema migration failed to apply or validate, leaving the database schema out of step with the migration history.",
			Remediation: "Inspect the failing migration script, fix or revert it, and repair the history table with `flyway repair` if a checksum changed.",
			Confidence:  0.9,
		},
		{
			Name:        "liquibase-changelog",
			Signature:   `liquibase\.exception|liquibase.*(failed|error executing)`,
			Title:       "Liquibase changelog failed",
			Description: "A Liquibase changeset failed to execute or validate against the target database.",
			Remediation: "Check the failing changeset, resolve checksum conflicts with `clearCheckSums`, and confirm the changelog order.",
			Confidence:  0.9,
		},
		{
			Name:        "circular-dependency",
			Signature:   `beancurrentlyincreationexception|circular depends-on relationship|requested bean is currently in creation`,
			Title:       "Circular bean dependency",
			Description: "Two or more beans depend on each other so the container cannot decide a construction order.",
			Remediation: "Break the cycle: extract the shared logic into a third bean, or switch one side to setter/`@Lazy` injection.",
			Confidence:  0.9,
		},
		{
			Name:        "missing-bean",
			Signature:   `nosuchbeandefinitionexception|required a bean of type .* that could not be found`,
			Title:       "Required bean not found",
			Description: "A dependency injection point asked for a bean the context does not contain, usually a missing annotation or an excluded auto-configuration.",
			Remediation: "Annotate the implementation (`@Component`/`@Service`) or define it with `@Bean`, and check component scanning covers its package.",
			Confidence:  0.9,
		},
		{
			Name:        "bean-creation",
			Signature:   `beancreationexception|unsatisfieddependencyexception|error creating bean with name`,
			Title:       "Bean creation failed",
			Description: "The container failed while constructing a bean. The root cause is usually the nested exception at the bottom of the trace.",
			Remediation: "Read the last `Caused by:` entry in the trace; that exception, not the bean wrapper, is the real failure to fix.",
			Confidence:  0.85,
		},
		{
			Name:        "placeholder-resolution",
			Signature:   `could not resolve placeholder|injection of autowired dependencies failed.*placeholder`,
			Title:       "Unresolved property placeholder",
			Description: "A `${...}` placeholder has no value in any active property source.",
			Remediation: "Define the property in application.yml/properties or the environment, or give the placeholder a default (`${name:default}`).",
			Confidence:  0.95,
		},
		{
			Name:        "property-binding",
			Signature:   `failed to bind properties under|bindexception|binding to target .* failed`,
			Title:       "Configuration property binding failed",
			Description: "A configuration value could not be converted to the target field's type, or a required property group is malformed.",
			Remediation: "Compare the property names and types against the `@ConfigurationProperties` class and fix the offending value.",
			Confidence:  0.9,
		},

		// Persistence failures
		{
			Name:        "jpa-unmanaged-type",
			Signature:   `not a managed type|unknown entity`,
			Title:       "Entity not managed by JPA",
			Description: "A repository references a class the persistence unit does not know, typically because entity scanning misses its package.",
			Remediation: "Annotate the class with `@Entity` and widen `@EntityScan` (or move the entity under the application's base package).",
			Confidence:  0.9,
		},
		{
			Name:        "sql-grammar",
			Signature:   `bad sql grammar|sqlsyntaxerrorexception|sqlgrammarexception|syntax error at or near`,
			Title:       "SQL syntax error",
			Description: "The database rejected a statement: invalid SQL, a missing table or column, or dialect mismatch.",
			Remediation: "Run the logged SQL directly against the database, and check naming strategy and schema migrations for the missing object.",
			Confidence:  0.9,
		},
		{
			Name:        "constraint-violation",
			Signature:   `constraintviolationexception|duplicate key value|unique (?:index or primary key|constraint) violat|integrity constraint violat`,
			Title:       "Database constraint violated",
			Description: "An insert or update broke a unique, foreign-key, or not-null constraint.",
			Remediation: "Check for duplicate writes and missing existence checks before insert; the constraint name in the message identifies the column set.",
			Confidence:  0.9,
		},
		{
			Name:        "transaction-rollback",
			Signature:   `unexpectedrollbackexception|transaction silently rolled back|rolled back because it has been marked as rollback-only`,
			Title:       "Transaction rolled back",
			Description: "An inner method marked the transaction rollback-only, so the outer commit failed even though it saw no exception.",
			Remediation: "Find the swallowed exception inside the transaction boundary; don't catch-and-continue inside `@Transactional` methods that share the outer transaction.",
			Confidence:  0.85,
		},
		{
			Name:        "optimistic-lock",
			Signature:   `optimistic(?:ing)?lock|row was updated or deleted by another transaction|objectoptimisticlockingfailureexception`,
			Title:       "Optimistic locking conflict",
			Description: "Two transactions updated the same versioned row; the later write lost.",
			Remediation: "Retry the failed operation on a fresh read, or reconsider the versioning/locking strategy for this aggregate.",
			Confidence:  0.85,
		},
		{
			Name:        "lazy-initialization",
			Signature:   `lazyinitializationexception|could not initialize proxy.*no session|failed to lazily initialize`,
			Title:       "Lazy load outside a session",
			Description: "A lazy association was touched after its persistence session closed, typically in a view or after a `@Transactional` boundary.",
			Remediation: "Fetch the association eagerly in the query (`join fetch`), or widen the transaction to cover the access.",
			Confidence:  0.9,
		},

		// Web and serialization failures
		{
			Name:        "ambiguous-mapping",
			Signature:   `ambiguous mapping|there is already .* bean method`,
			Title:       "Conflicting request mappings",
			Description: "Two handler methods map to the same route, so the dispatcher cannot choose.",
			Remediation: "Make the paths, HTTP methods, or media types distinct between the two handlers named in the message.",
			Confidence:  0.9,
		},
		{
			Name:        "request-validation",
			Signature:   `methodargumentnotvalidexception|missingservletrequestparameterexception|validation failed for argument`,
			Title:       "Request validation failed",
			Description: "An incoming request did not satisfy the handler's parameter or body constraints. Usually a client problem surfaced server-side.",
			Remediation: "Check the field errors listed in the message; if the request is actually valid, relax the constraint annotations on the bound object.",
			Confidence:  0.8,
		},
		{
			Name:        "json-mapping",
			Signature:   `jsonmappingexception|jsonparseexception|invaliddefinitionexception|cannot deserialize|cannot construct instance`,
			Title:       "JSON (de)serialization failed",
			Description: "Jackson could not map between JSON and the target type: unknown shape, missing constructor, or type mismatch.",
			Remediation: "Align the DTO with the payload (field names, types), and give abstract/immutable types a creator or concrete mapping.",
			Confidence:  0.85,
		},

		// Generic JVM failures (keep after the framework rules)
		{
			Name:        "out-of-memory",
			Signature:   `outofmemoryerror|java heap space|gc overhead limit exceeded|metaspace`,
			Title:       "JVM out of memory",
			Description: "The heap or metaspace is exhausted. Either the workload genuinely needs more memory or something is leaking.",
			Remediation: "Capture a heap dump (`-XX:+HeapDumpOnOutOfMemoryError`), look for the dominant retainer, then raise `-Xmx` only if the usage is legitimate.",
			Confidence:  0.9,
		},
		{
			Name:        "stack-overflow",
			Signature:   `stackoverflowerror`,
			Title:       "Stack overflow",
			Description: "Unbounded recursion, frequently mutual `toString`/`hashCode` calls between entities or a self-referencing serializer.",
			Remediation: "Look for the repeating frame cycle in the trace and break the recursion (e.g. exclude back-references from equals/hashCode/serialization).",
			Confidence:  0.9,
		},
		{
			Name:        "connection-refused",
			Signature:   `connectexception|connection refused`,
			Title:       "Connection refused",
			Description: "A TCP connection to a downstream host was actively refused: nothing is listening at that address and port.",
			Remediation: "Verify the downstream service is up, and that the configured host/port match where it actually listens.",
			Confidence:  0.85,
		},
		{
			Name:        "request-timeout",
			Signature:   `sockettimeoutexception|read timed out|connecttimeoutexception|timeoutexception`,
			Title:       "Downstream call timed out",
			Description: "A network call exceeded its timeout: the remote side is slow, overloaded, or unreachable behind a firewall that drops packets.",
			Remediation: "Check downstream health and latency; raise the client timeout only if the slow call is expected to take that long.",
			Confidence:  0.8,
		},
		{
			Name:        "unknown-host",
			Signature:   `unknownhostexception`,
			Title:       "Hostname could not be resolved",
			Description: "DNS resolution failed for a configured hostname. Typo in the URL or DNS not reachable from this environment.",
			Remediation: "Check the hostname spelling in configuration and resolve it manually (`nslookup`/`dig`) from the same host.",
			Confidence:  0.9,
		},
		{
			Name:        "ssl-handshake",
			Signature:   `sslhandshakeexception|pkix path building failed|unable to find valid certification path`,
			Title:       "TLS handshake failed",
			Description: "The peer's certificate chain is not trusted by this JVM's truststore, or protocol versions do not overlap.",
			Remediation: "Import the missing CA into the truststore (`keytool -importcert`) or fix the server's certificate chain; never disable verification in production.",
			Confidence:  0.9,
		},
		{
			Name:        "class-not-found",
			Signature:   `classnotfoundexception|noclassdeffounderror`,
			Title:       "Class missing at runtime",
			Description: "A class present at compile time is absent from the runtime classpath, typically a dependency conflict or a provided-scope mistake.",
			Remediation: "Check the dependency tree for the artifact that owns the class and for version conflicts that evict it.",
			Confidence:  0.85,
		},
		{
			Name:        "method-not-found",
			Signature:   `nosuchmethoderror|nosuchmethodexception|nosuchfielderror`,
			Title:       "Binary incompatibility",
			Description: "Two dependencies were compiled against different versions of the same library, and the runtime picked the wrong one.",
			Remediation: "Inspect the dependency tree for the library that owns the missing member and pin a single consistent version.",
			Confidence:  0.85,
		},
		{
			Name:        "null-pointer",
			Signature:   `nullpointerexception`,
			Title:       "Null pointer dereference",
			Description: "A null reference was dereferenced. On modern JVMs the message names the exact expression that was null.",
			Remediation: "Open the top non-framework frame of the trace and guard or initialize the value the message names.",
			Confidence:  0.8,
		},
		{
			Name:        "class-cast",
			Signature:   `classcastexception`,
			Title:       "Invalid type cast",
			Description: "An object was cast to a type it does not implement, often from raw collections or misconfigured generics.",
			Remediation: "Check the actual runtime type named in the message and fix the cast site or the producer that created the value.",
			Confidence:  0.8,
		},
		{
			Name:        "number-format",
			Signature:   `numberformatexception`,
			Title:       "Invalid numeric string",
			Description: "A string that is not a valid number was parsed as one, usually unvalidated input or an empty property value.",
			Remediation: "Validate or default the input before parsing; the offending string is quoted in the message.",
			Confidence:  0.8,
		},
		{
			Name:        "index-out-of-bounds",
			Signature:   `indexoutofboundsexception|arrayindexoutofbounds`,
			Title:       "Index out of bounds",
			Description: "A list or array access used an index outside the container's size.",
			Remediation: "Bounds-check the access in the top user-code frame, and watch for off-by-one iteration over empty collections.",
			Confidence:  0.8,
		},
		{
			Name:        "illegal-argument",
			Signature:   `illegalargumentexception`,
			Title:       "Illegal argument",
			Description: "A method rejected one of its arguments. The message usually states the violated precondition.",
			Remediation: "Check the call site in the top user-code frame against the precondition in the message.",
			Confidence:  0.7,
		},
		{
			Name:        "illegal-state",
			Signature:   `illegalstateexception`,
			Title:       "Illegal state",
			Description: "An operation ran at a time its receiver did not allow, e.g. using a closed resource or a context that failed to start.",
			Remediation: "Look at the nested cause first; IllegalStateException frequently wraps the startup failure that actually matters.",
			Confidence:  0.7,
		},
	}
}
