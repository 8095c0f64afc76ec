// Package app is the application layer. It orchestrates the reaction use
// cases across the authoritative store, the membership cache, and the event
// dispatcher, and is the only package that references more than one of them.
package app
