/*
Package xor applies keyed XOR screening to byte streams.

This is NOT encryption. Screening is trivially reversible, and in this module the key is a fixed, publicly known byte used by the content service to deter naive scraping.
Applying the same key and offset a second time restores the original bytes.

# How it works:

Every byte passing through Screen, Reader, or Writer is combined with the current key byte.
Once a key byte is used the screen moves to the next one, wrapping back to the first like a ring buffer.
A single-byte key therefore screens every byte with the same value.

Providing an offset starts the screen at that position in the key instead of the first byte.
The same key and offset must be provided to reverse the process.
*/
package xor
