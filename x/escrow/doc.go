/*
Package escrow implements a trustless two party swap.

The initializer deposits tokens into a token account and hands its control
over to the custodial authority, an address derived for this program that
no key exists for. An escrow record remembers the deposit, where the
initializer wants to be paid and how much. A taker settles the trade with
Exchange, receiving the full deposit while paying the expected amount. The
initializer can take the deposit back with Cancel as long as no taker
settled it.

Both closing operations delete the record and the deposit account and
return their storage allowance to the initializer. They consist of several
ledger calls and must run inside a savepoint, so that a failure of any call
reverts all of them.
*/
package escrow
