// Package utils holds small helpers for reading loosely typed JSON values.
package utils
