// Package services defines the shared error taxonomy used across the engine.
//
// Components tag failures with sentinel markers so the API boundary can
// classify them: validation and not-found errors surface to the caller,
// candidate-source errors degrade locally, persistence errors abort the
// request.
package services
