// Package service contains the application use cases of the palace API. It
// orchestrates domain objects, the scheduler and the grid compiler with the
// repositories defined in internal/store.
//
// Services receive their dependencies through constructor injection and
// apply transactional boundaries when an operation spans several
// repositories. Every operation takes the authenticated owner explicitly and
// rejects access to records owned by someone else with ErrNotOwned.
//
// The service layer depends on domain entities and repository interfaces,
// never on specific infrastructure implementations.
package service
