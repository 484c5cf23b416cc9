// Copyright (c) Dynabaml Authors.
// Licensed under the MIT License.

/*
Package types provides the shared type contracts of the dynabaml library.

types is the lowest-level package and depends on nothing else in the
module. It defines:

  - Descriptor         — immutable tagged-variant type descriptor model
  - ProviderOptions    — validated provider/runtime configuration
  - Error / ErrorCode  — structured error taxonomy shared by every package
  - CallResult         — result envelope returned by the safe entry point

All higher packages (schema, providers, executor) build on these contracts
to avoid circular dependencies.
*/
package types
