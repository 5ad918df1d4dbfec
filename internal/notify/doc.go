// Package notify implements the notification collaborator that makes a fired
// alarm noticeable: a terminal banner with a ringing bell, an external sound
// command, or both. Every notification keeps ringing until it is stopped or
// its ring timeout elapses.
package notify
