// Package matrix models the interpreter × dependency version matrix
// and its continuous-integration descriptor.
//
// A matrix file (matrix.yml) declares the envlist: environments named
// {interpreter}-{dependency}{version}, each resolving to a dependency
// pin and a command sequence. A ci file (ci.yml) declares the
// interpreter list, the pin selectors crossed against it, the
// exclusion allowlist and the lifecycle stage hooks.
//
// Expand produces the cross product as cells. Validate collects the
// configuration lint errors, line-tagged.
package matrix
