// Package domain contains the core business entities of the memory palace:
// users, palaces, furniture, flashcards and the review state the scheduler
// evolves. It is independent of storage and transport.
//
// The scheduling algorithm lives in the srs subpackage and the layout grid
// compiler in the layout subpackage.
package domain
