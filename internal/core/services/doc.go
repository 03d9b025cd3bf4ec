// Package services contains the core business logic, implementing the
// driving ports on top of the driven ports. Services are adapter-agnostic:
// they never import HTTP clients, databases, or file formats directly.
package services
