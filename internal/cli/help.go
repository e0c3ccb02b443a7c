package cli

const rootLong = `docset stores JSON documents in one SQL table per store: the document
itself, its tags, a timestamp and one column per declared index. Queries
filter on index criteria, whole tags and a timestamp range, and page by key.

Indexes are declared in the configuration file:

  indexes:
    - name: status
    - name: labels
      field: meta.labels
      multi: true

Every setting can also come from a DOCSET_* environment variable
(DOCSET_SQLITE_PATH, DOCSET_POSTGRES_DSN, ...) or a flag.

BACKENDS
  sqlite     file database (default; driver sqlite or sqlite3)
  postgres   PostgreSQL, tables live in --pg-schema
  sqlserver  Microsoft SQL Server`
