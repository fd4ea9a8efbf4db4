//go:build rttidebug

package rtti

const debugAssertions = true
