package portal

import "html/template"

// indexData feeds the portal page template.
type indexData struct {
	Mode string
	Pins []pinReading
}

// indexTemplate is the whole portal UI. The page is deliberately a single
// self-contained document: portal clients have no internet access, so it
// must not reference any external asset.
var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>gpioweb setup</title>
<style>
  body { font-family: sans-serif; max-width: 28em; margin: 2em auto; padding: 0 1em; color: #222; }
  h1 { font-size: 1.4em; }
  fieldset { border: 1px solid #ccc; border-radius: 4px; margin-bottom: 1.5em; }
  label { display: block; margin-top: 0.8em; }
  input, button, select { font-size: 1em; padding: 0.4em; margin-top: 0.2em; width: 100%; box-sizing: border-box; }
  button { background: #2d6cdf; color: #fff; border: 0; border-radius: 4px; margin-top: 1em; cursor: pointer; }
  button.danger { background: #c0392b; }
  table { width: 100%; border-collapse: collapse; }
  td, th { text-align: left; padding: 0.3em 0; border-bottom: 1px solid #eee; }
  #status { margin-top: 0.8em; min-height: 1.2em; }
</style>
</head>
<body>
<h1>gpioweb</h1>
<p>Device mode: <strong id="mode">{{.Mode}}</strong></p>

<fieldset>
<legend>Join a network</legend>
<form id="join">
  <label>Network
    <select id="ssid"><option value="">scanning&hellip;</option></select>
  </label>
  <label>Password
    <input type="password" id="secret" autocomplete="off">
  </label>
  <button type="submit">Connect</button>
</form>
<div id="status"></div>
</fieldset>

<fieldset>
<legend>Pins</legend>
<table id="pins">
<tr><th>Label</th><th>Pin</th><th>Level</th></tr>
{{range .Pins}}<tr><td>{{.Label}}</td><td>{{.Name}}</td><td>{{if .Error}}error{{else}}{{.Level}}{{end}}</td></tr>
{{end}}</table>
</fieldset>

<button class="danger" id="reset">Forget network</button>

<script>
async function getJSON(url) {
  const r = await fetch(url);
  if (!r.ok) throw new Error("request failed");
  return r.json();
}

async function loadNetworks() {
  const sel = document.getElementById("ssid");
  try {
    const nets = await getJSON("/api/networks");
    sel.innerHTML = "";
    for (const n of nets) {
      const opt = document.createElement("option");
      opt.value = n.ssid;
      opt.textContent = n.ssid + " (" + n.signal + "%)" + (n.open ? " open" : "");
      sel.appendChild(opt);
    }
  } catch {
    sel.innerHTML = "<option value=''>scan unavailable</option>";
  }
}

async function pollTicket(ticket) {
  const status = document.getElementById("status");
  for (;;) {
    await new Promise(res => setTimeout(res, 1000));
    const t = await getJSON("/api/wifi/status?ticket=" + encodeURIComponent(ticket));
    if (t.state === "pending") continue;
    if (t.state === "success") {
      status.textContent = "Connected." + (t.persisted ? "" : " Warning: credential not saved.");
    } else {
      status.textContent = "Failed: " + (t.message || "unknown error");
    }
    return;
  }
}

document.getElementById("join").addEventListener("submit", async e => {
  e.preventDefault();
  const status = document.getElementById("status");
  status.textContent = "Connecting…";
  const body = JSON.stringify({
    name: document.getElementById("ssid").value,
    secret: document.getElementById("secret").value,
  });
  try {
    const r = await fetch("/api/wifi", { method: "POST", headers: { "Content-Type": "application/json" }, body });
    const resp = await r.json();
    await pollTicket(resp.ticket);
  } catch {
    status.textContent = "Submission failed.";
  }
});

document.getElementById("reset").addEventListener("click", async () => {
  if (!confirm("Forget the saved network and return to setup mode?")) return;
  await fetch("/api/reset", { method: "POST" });
});

loadNetworks();
</script>
</body>
</html>
`))
