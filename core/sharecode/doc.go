// Package sharecode issues the short codes students type to join a group.
//
// Codes are six characters from an alphabet without 0/O and 1/I. Generate
// redraws until the candidate is absent from the caller's set of issued codes;
// the set includes every code ever issued, so a replaced code is never reused.
package sharecode
