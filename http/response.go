package http

// usagePage is served when no url parameter is provided.
const usagePage = `<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>url2mda</title>
	<style>
		body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 3rem auto; padding: 0 1rem; color: #1a1a1a; }
		h1 { font-size: 2rem; }
		code, pre { background: #f4f4f4; border-radius: 4px; padding: 0.15rem 0.35rem; }
		pre { padding: 0.75rem; overflow-x: auto; }
		form { display: flex; gap: 0.5rem; margin: 1.5rem 0; }
		input { flex: 1; padding: 0.5rem; border: 1px solid #ccc; border-radius: 4px; }
		button { padding: 0.5rem 1rem; border: 0; border-radius: 4px; background: #1a1a1a; color: #fff; cursor: pointer; }
	</style>
</head>
<body>
	<h1>url2mda</h1>
	<p>A fast open-source tool to convert any website into LLM-ready markdown data.</p>

	<form onsubmit="event.preventDefault(); window.location.href = '/?url=' + encodeURIComponent(document.getElementById('urlInput').value) + '&amp;htmlDetails=true';">
		<input id="urlInput" type="text" placeholder="Enter website URL">
		<button type="submit">Convert</button>
	</form>

	<h2>Usage</h2>
	<pre>GET /?url=https://example.com</pre>

	<h2>Parameters</h2>
	<ul>
		<li><code>url</code> (required): full http or https URL to convert</li>
		<li><code>htmlDetails</code>: set to <code>true</code> for a detailed response including the full page content</li>
		<li><code>subpages</code>: set to <code>true</code> to also convert same-origin subpages (up to 10, requires JSON)</li>
		<li><code>llmFilter</code>: set to <code>true</code> to filter out noise using an LLM</li>
	</ul>

	<h2>Response types</h2>
	<ul>
		<li>Add <code>Content-Type: text/plain</code> for plain markdown</li>
		<li>Add <code>Content-Type: application/json</code> for a JSON result list</li>
	</ul>
</body>
</html>
`
