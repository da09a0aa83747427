/*
Package swapvault defines the interfaces that tie the runtime, the programs
and the ABCI application together: addresses and program derived addresses,
storage, instructions and transactions, handlers and decorators, context and
authentication.

We pass context through context.Context between app, decorators and
programs. There exist two functions for every value XYZ of type T stored in
the context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) T

WithXYZ panics if the value was previously set to prevent lower level code
from overwriting it.
*/
package swapvault
