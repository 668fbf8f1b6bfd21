/*
Package ikc recovers standard WebP images from the obfuscated page image payloads served by the content service.

# Payload format:

An obfuscated payload starts with the marker byte 'E' (0x45).
The service strips the first 15 bytes of the original WebP file, which are the RIFF tag, the RIFF size, the WEBP form type, and the first three bytes of the "VP8 " chunk tag.
Every remaining byte is then XOR screened with the fixed key 0x65.
The marker is simply the screened space that ends the "VP8 " chunk tag.

Decode reverses this by synthesizing the 15 byte prefix and unscreening the whole payload after it.
Payloads that don't start with the marker are assumed to be valid containers already, and are returned as-is.

Encode performs the inverse transform, which is mostly useful for producing fixtures.
*/
package ikc
