// Package service provides application-level services for managing
// tasks, projects, books, users, and the dashboard read model.
package service
