// Package cpu implements the accumulator machine and its assembler.
//
// The machine has 26 int32 memory cells (named 'a' through 'z'), a single
// accumulator, a three-way comparison flag set by 'cmp' and read by the
// conditional jumps, and a program counter indexing the instruction list.
//
// The assembler turns source lines into a Program of typed instructions plus
// a table of jump labels, and validates that the program has a single
// trailing 'end' and that every jump label resolves to exactly one
// definition.
package cpu
