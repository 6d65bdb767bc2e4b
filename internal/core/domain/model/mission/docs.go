// Package mission models courier jobs: the exclusive offer cascade, the
// assignment lifecycle and live tracking (trail, ETA, approach notice).
package mission
