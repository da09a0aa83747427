/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each package keeps its configuration as a singleton stored under the "_c:"
prefix followed by the package name. Configuration is loaded from the genesis
file "conf" section and validated before being written.
*/
package gconf
