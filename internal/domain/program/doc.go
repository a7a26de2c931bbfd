// Package program defines display program descriptors: the launch
// specification and the declarative configuration schema (key, flag, type,
// default) used by the generic merge-and-serialize launch path, plus the
// fixed registry of descriptors.
package program
