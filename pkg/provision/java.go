// Package provision locates runtime prerequisites for matrix cells.
//
// The only provisioned runtime is Java: distributed back-ends start a
// JVM behind the interpreter, so cells whose environment name carries
// a marker substring need a specific Java major version before their
// commands run. The provisioner probes rather than installs, and never
// mutates the parent process environment: Ensure returns the env delta
// to apply to cell commands.
package provision

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoRuntime is returned when no installed Java matches the required
// major version.
var ErrNoRuntime = errors.New("no matching java runtime")

// Rule maps an env-name marker substring to a Java major version.
type Rule struct {
	Marker string
	Major  int
}

// DefaultRules covers the distributed back-ends that start a JVM.
var DefaultRules = []Rule{
	{Marker: "pyspark", Major: 8},
	{Marker: "spark", Major: 8},
}

// DefaultRoots are the install roots scanned for JVMs.
var DefaultRoots = []string{"/usr/lib/jvm"}

// Delta is the environment change a provisioned runtime needs.
type Delta struct {
	JavaHome    string
	PathPrepend string
}

// Apply returns env extended with JAVA_HOME and the path prepend. A
// nil delta returns env unchanged.
func (d *Delta) Apply(env []string) []string {
	if d == nil {
		return env
	}
	out := make([]string, 0, len(env)+2)
	out = append(out, "JAVA_HOME="+d.JavaHome)
	path := d.PathPrepend
	for _, kv := range env {
		switch {
		case strings.HasPrefix(kv, "PATH="):
			path = path + string(os.PathListSeparator) + strings.TrimPrefix(kv, "PATH=")
		case strings.HasPrefix(kv, "JAVA_HOME="):
		default:
			out = append(out, kv)
		}
	}
	return append(out, "PATH="+path)
}

// Provisioner probes for Java runtimes. The zero value uses the
// default rules, the default install roots and the process
// environment.
type Provisioner struct {
	Rules []Rule
	Roots []string

	// LookupEnv overrides os.LookupEnv for the JAVA_HOME probe.
	LookupEnv func(string) (string, bool)
}

// Required reports whether the environment needs a JVM.
func (p *Provisioner) Required(envName string) bool {
	_, ok := p.rule(envName)
	return ok
}

// Ensure locates a Java runtime of the required major version. The nil
// delta means the environment needs none. JAVA_HOME is reused when it
// already reports the wanted major, otherwise the install roots are
// scanned; the returned error lists everything probed.
func (p *Provisioner) Ensure(ctx context.Context, envName string) (*Delta, error) {
	rule, ok := p.rule(envName)
	if !ok {
		return nil, nil
	}

	var probed []string

	if home, ok := p.lookup("JAVA_HOME"); ok && home != "" {
		major, err := p.probe(ctx, home)
		switch {
		case err != nil:
			probed = append(probed, fmt.Sprintf("JAVA_HOME %s: %v", home, err))
		case major == rule.Major:
			return delta(home), nil
		default:
			probed = append(probed, fmt.Sprintf("JAVA_HOME %s: java %d", home, major))
		}
	}

	for _, root := range p.roots() {
		entries, err := os.ReadDir(root)
		if err != nil {
			probed = append(probed, fmt.Sprintf("%s: %v", root, err))
			continue
		}
		for _, ent := range entries {
			home := filepath.Join(root, ent.Name())
			// entries under the install roots are often symlinks
			info, err := os.Stat(home)
			if err != nil || !info.IsDir() {
				continue
			}
			major, err := p.probe(ctx, home)
			if err != nil {
				probed = append(probed, fmt.Sprintf("%s: %v", home, err))
				continue
			}
			if major == rule.Major {
				return delta(home), nil
			}
			probed = append(probed, fmt.Sprintf("%s: java %d", home, major))
		}
	}

	if len(probed) == 0 {
		probed = append(probed, "nothing installed")
	}
	return nil, fmt.Errorf("%w: %s needs java %d; probed %s",
		ErrNoRuntime, envName, rule.Major, strings.Join(probed, ", "))
}

func delta(home string) *Delta {
	return &Delta{JavaHome: home, PathPrepend: filepath.Join(home, "bin")}
}

func (p *Provisioner) rule(envName string) (Rule, bool) {
	rules := p.Rules
	if len(rules) == 0 {
		rules = DefaultRules
	}
	for _, r := range rules {
		if strings.Contains(envName, r.Marker) {
			return r, true
		}
	}
	return Rule{}, false
}

func (p *Provisioner) roots() []string {
	if len(p.Roots) > 0 {
		return p.Roots
	}
	return DefaultRoots
}

func (p *Provisioner) lookup(key string) (string, bool) {
	if p.LookupEnv != nil {
		return p.LookupEnv(key)
	}
	return os.LookupEnv(key)
}

// probe runs $home/bin/java -version and parses the reported major.
// The version banner goes to stderr.
func (p *Provisioner) probe(ctx context.Context, home string) (int, error) {
	java := filepath.Join(home, "bin", "java")
	out, err := exec.CommandContext(ctx, java, "-version").CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("java -version: %w", err)
	}
	return ParseMajor(string(out))
}

var versionPattern = regexp.MustCompile(`version "([0-9._]+)[^"]*"`)

// ParseMajor extracts the major version from java -version output.
func ParseMajor(output string) (int, error) {
	m := versionPattern.FindStringSubmatch(output)
	if m == nil {
		line := strings.TrimSpace(strings.SplitN(output, "\n", 2)[0])
		return 0, fmt.Errorf("no version in java output %q", line)
	}
	return MajorOf(m[1])
}

// MajorOf parses a version string in either the legacy or the current
// form: 1.8.0_292 is major 8, 11.0.2 is major 11.
func MajorOf(version string) (int, error) {
	parts := strings.FieldsFunc(version, func(r rune) bool { return r == '.' || r == '_' })
	if len(parts) == 0 {
		return 0, fmt.Errorf("unparseable java version %q", version)
	}
	first, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("unparseable java version %q", version)
	}
	if first != 1 {
		return first, nil
	}
	if len(parts) < 2 {
		return 0, fmt.Errorf("unparseable java version %q", version)
	}
	second, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("unparseable java version %q", version)
	}
	return second, nil
}
