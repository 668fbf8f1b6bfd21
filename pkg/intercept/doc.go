/*
Package intercept rewrites HTTP responses on their way back from the network.

Transport is an http.RoundTripper that hands every completed response to a chain of ResponseRewriter values.
PageImageRewriter is the rewriter for the content service's page images: it decodes responses for URLs ending with the page image suffix and replaces their bodies with standard WebP data.
Any other response is returned exactly as received.

No retries are performed. Errors from the underlying transport are returned unchanged.
*/
package intercept
