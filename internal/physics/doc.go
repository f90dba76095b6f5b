// Package physics builds the interaction Hamiltonians of nuclear
// magnetic and quadrupole resonance:
//
//   - [Zeeman]: static-field coupling of the magnetic moment
//   - [Quadrupole]: electric-quadrupole coupling to the field gradient
//   - [SingleModePulse], [MultiModePulse]: oscillating-field terms
//   - [ChangedPicture]: rotating/interaction-frame transformation
//
// # Units
//
// Energies and frequencies are in MHz, magnetic fields in tesla,
// gyromagnetic ratios in MHz/T, times in microseconds, with hbar = 1.
// Pulse-mode frequencies are angular (rad/us). The factor 2 pi that
// converts MHz Hamiltonians to angular generators is applied by the
// evolution engine, not here.
package physics
