// Package roll settles skill checks and raw probability draws.
//
// All randomness in the engine flows through a RandomSource so tests can pin
// outcomes with a seeded or scripted source. A minigame result is passed as
// a *Forced override and replaces the draw entirely.
package roll
