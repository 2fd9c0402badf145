// Package services contains domain services that coordinate more than one
// aggregate. CourierSelector implements the auto-assign policy: it resolves
// which courier an administrator-triggered assignment goes to.
package services
