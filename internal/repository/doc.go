// Package repository implements the data access layer for the Taskboard API.
//
// Two repositories cover the whole data model: UserRepository for the user
// directory and ProjectRepository for the project aggregate (projects with
// their embedded columns and tasks).
//
// # Repository Pattern
//
// Both repositories follow the same shape:
//
//   - Constructor function (NewXxxRepository) accepts a database connection
//   - Methods implement specific data operations (Create, GetByID, ...)
//   - SurrealQL queries are used for all database interactions
//   - Results are parsed and mapped to model structs
//
// # Nested Mutations
//
// Columns and tasks live inside the project document, so board mutations
// are expressed as single UPDATE statements over the project record using
// SurrealQL array functions (array::map, array::filter, `+=`/`-=`). Every
// such statement targets type::record($id), so a mutation can never touch
// a record outside the addressed project. Moving a task between columns is
// the one multi-statement operation; it goes through database.AtomicBatch
// so the removal and the insert commit together.
//
// # Query Patterns
//
//   - Parameterized queries with $variable syntax for security
//   - type::record() for safe ID handling
//   - time::now() for automatic timestamps
//
// # Example Usage
//
//	repo := NewProjectRepository(db)
//	project, err := repo.GetByID(ctx, "project:abc123")
//	if err != nil {
//	    if errors.Is(err, database.ErrNotFound) {
//	        // Handle not found
//	    }
//	    return err
//	}
package repository
