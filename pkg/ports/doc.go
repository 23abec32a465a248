/*
Package ports defines the driven ports (interfaces) of the builder.

# Key Interfaces

  - ManifestStore: persists the manifest of each recorded build (memory, file
    and redis adapters live under pkg/adapters).
  - DocumentLoader: reads named documents from a recipe catalog (memory and
    file adapters).

RunManifestStoreContract and RunDocumentLoaderContract are the shared test
suites every adapter runs.
*/
package ports
