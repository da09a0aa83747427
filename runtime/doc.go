/*
Package runtime implements the execution environment shared by all programs:
accounts holding a storage allowance and program owned data, the storage
exemption oracle, the instruction router, the system program that creates and
funds accounts, and the program signing capability.

A program can act as an address derived from its own ID and a set of seeds.
Use SignAs to obtain a context in which that address is authorized, for the
duration of a nested ledger call only.
*/
package runtime
