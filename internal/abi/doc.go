// Package abi holds overflow-safe arithmetic shared by the view and the
// descriptor table.
package abi
