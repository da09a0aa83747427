/*
Package token implements a single purpose asset ledger.

A token account is a runtime account owned by the token program. Its data
holds the mint the balance is denominated in, the authority allowed to move
or close it and the balance itself. The authority can be a key holder or an
address derived for another program, in which case only that program can
act for it, see runtime.SignAs.

Other programs use the Controller directly. Clients use the instructions
built by this package.
*/
package token
