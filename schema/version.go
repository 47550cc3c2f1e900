package schema

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/teranos/contractgen/errors"
)

// DefaultVersion is stamped when an annotation carries no version.
const DefaultVersion = "1.0"

var versionPattern = regexp.MustCompile(`v(\d+)\.(\d+)`)

// VersionOptions controls ExtractVersion.
type VersionOptions struct {
	Default    string
	Strict     bool
	Constraint string
}

// ExtractVersion finds the first "v<major>.<minor>" in annotation and
// returns it normalised as "<major>.<minor>". Without a match it returns
// opts.Default and fallback=true, or an error when opts.Strict is set.
// A non-empty opts.Constraint must be satisfied by the result.
func ExtractVersion(annotation string, opts VersionOptions) (version string, fallback bool, err error) {
	if opts.Default == "" {
		opts.Default = DefaultVersion
	}

	raw := opts.Default
	if m := versionPattern.FindStringSubmatch(annotation); m != nil {
		raw = m[1] + "." + m[2]
	} else if opts.Strict {
		return "", false, errors.WithHint(
			errors.Newf("no version of the form v<major>.<minor> in %q", annotation),
			`add a version to the schema "$comment", e.g. "Prompt schema v1.0"`)
	} else {
		fallback = true
	}

	v, err := semver.NewVersion(raw)
	if err != nil {
		return "", false, errors.Wrapf(err, "invalid schema version %q", raw)
	}
	version = fmt.Sprintf("%d.%d", v.Major(), v.Minor())

	if opts.Constraint != "" {
		c, err := semver.NewConstraint(opts.Constraint)
		if err != nil {
			return "", false, errors.Wrapf(err, "invalid version constraint %q", opts.Constraint)
		}
		if ok, reasons := c.Validate(v); !ok {
			cause := errors.Newf("schema version %s does not satisfy %q", version, opts.Constraint)
			for _, r := range reasons {
				cause = errors.WithDetail(cause, r.Error())
			}
			return "", false, cause
		}
	}

	return version, fallback, nil
}
