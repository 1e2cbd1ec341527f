package source

import (
	"regexp"
	"strconv"
	"strings"
)

// framePattern parses one stack-trace element:
//
//	at com.example.service.UserService.findUser(UserService.java:42)
//
// The captured groups are the qualified class name with method, the source
// file name, the extension, and the line number. Only JVM-family source
// extensions are accepted.
var framePattern = regexp.MustCompile(
	`^\s*at\s+([\w$.]+?)\.([\w$<>]+)\(([\w$]+\.(?:java|kt|groovy|scala)):(\d+)\)`,
)

// Frame is one parsed stack-trace element.
type Frame struct {
	ClassName  string // fully qualified, e.g. "com.example.service.UserService"
	MethodName string // e.g. "findUser", "<init>", "lambda$run$0"
	FileName   string // e.g. "UserService.java"
	Line       int
}

// frameworkPrefixes is the deny-list of namespaces that are never user code.
// Frames under these are skipped: their source would not help diagnosis.
var frameworkPrefixes = []string{
	"org.springframework.",
	"org.hibernate.",
	"org.apache.",
	"java.",
	"javax.",
	"jakarta.",
	"jdk.",
	"sun.",
	"com.sun.",
	"kotlin.",
	"kotlinx.",
	"scala.",
	"net.bytebuddy.",
	"org.aspectj.",
	"com.zaxxer.",
	"com.fasterxml.",
	"io.netty.",
	"reactor.",
	"org.junit.",
	"org.gradle.",
	"org.slf4j.",
	"ch.qos.logback.",
}

// ParseFrame parses a frame line. Returns false for lines that do not match
// the frame grammar.
func ParseFrame(line string) (Frame, bool) {
	m := framePattern.FindStringSubmatch(line)
	if m == nil {
		return Frame{}, false
	}
	n, err := strconv.Atoi(m[4])
	if err != nil || n < 1 {
		return Frame{}, false
	}
	return Frame{
		ClassName:  m[1],
		MethodName: m[2],
		FileName:   m[3],
		Line:       n,
	}, true
}

// IsFrameworkFrame reports whether the frame belongs to a denied
// framework/runtime namespace.
func IsFrameworkFrame(f Frame) bool {
	for _, p := range frameworkPrefixes {
		if strings.HasPrefix(f.ClassName, p) {
			return true
		}
	}
	return false
}

// packageDir converts the frame's package to a relative directory path,
// e.g. "com.example.service.UserService" -> "com/example/service".
func (f Frame) packageDir() string {
	i := strings.LastIndex(f.ClassName, ".")
	if i < 0 {
		return ""
	}
	return strings.ReplaceAll(f.ClassName[:i], ".", "/")
}
