// Package filter provides the structuring masks used to spread pixels:
// circular disks, squares, and caller-supplied odd-sized grids.
package filter
