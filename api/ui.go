package api

import (
	"net/http"
)

func (s *Server) handleUIPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(uiPageHTML))
}

const uiPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>QR Studio</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    background: #0a0a0a;
    color: #e0e0e0;
    display: flex;
    justify-content: center;
    padding: 32px 16px;
  }
  .card {
    background: #1a1a1a;
    border: 1px solid #333;
    border-radius: 16px;
    padding: 32px;
    max-width: 520px;
    width: 100%;
  }
  h1 { font-size: 20px; font-weight: 600; margin-bottom: 8px; }
  .subtitle { color: #888; font-size: 14px; margin-bottom: 24px; }
  label { display: block; font-size: 13px; color: #aaa; margin: 12px 0 4px; }
  input, select {
    width: 100%;
    background: #111;
    color: #e0e0e0;
    border: 1px solid #333;
    border-radius: 8px;
    padding: 8px 10px;
    font-size: 14px;
  }
  .row { display: flex; gap: 12px; }
  .row > div { flex: 1; }
  .check { display: flex; align-items: center; gap: 8px; margin-top: 12px; }
  .check input { width: auto; }
  button {
    margin-top: 20px;
    width: 100%;
    background: #2563eb;
    color: #fff;
    border: none;
    border-radius: 8px;
    padding: 10px;
    font-size: 15px;
    cursor: pointer;
  }
  #result {
    margin-top: 24px;
    display: flex;
    justify-content: center;
    background: #fff;
    border-radius: 12px;
    min-height: 120px;
    align-items: center;
  }
  #result img { max-width: 100%; border-radius: 12px; }
  #error { color: #f87171; font-size: 13px; margin-top: 8px; }
  #history { margin-top: 24px; font-size: 13px; color: #888; }
  #history li { margin: 4px 0; list-style: none; overflow: hidden; text-overflow: ellipsis; white-space: nowrap; }
</style>
</head>
<body>
<div class="card">
  <h1>QR Studio</h1>
  <p class="subtitle">Generate a styled QR code</p>
  <label for="content">Content</label>
  <input id="content" placeholder="https://example.com">
  <div class="row">
    <div>
      <label for="fill">Fill color</label>
      <input id="fill" value="#111827">
    </div>
    <div>
      <label for="back">Background</label>
      <input id="back" value="#ffffff">
    </div>
  </div>
  <div class="row">
    <div>
      <label for="box">Box size</label>
      <input id="box" type="number" value="10" min="1" max="50">
    </div>
    <div>
      <label for="border">Border</label>
      <input id="border" type="number" value="4" min="0" max="20">
    </div>
    <div>
      <label for="ec">Error correction</label>
      <select id="ec">
        <option>L</option>
        <option selected>M</option>
        <option>Q</option>
        <option>H</option>
      </select>
    </div>
  </div>
  <label for="logo">Logo URL (optional)</label>
  <input id="logo" placeholder="https://example.com/logo.png">
  <div class="check">
    <input id="rounded" type="checkbox" checked>
    <label for="rounded" style="margin:0">Soften module corners</label>
  </div>
  <button id="generate">Generate</button>
  <div id="error"></div>
  <div id="result"><span style="color:#888">No image yet</span></div>
  <ul id="history"></ul>
</div>
<script>
(function() {
  var resultEl = document.getElementById('result');
  var errorEl = document.getElementById('error');
  var historyEl = document.getElementById('history');

  function loadHistory() {
    fetch('/api/history?limit=8')
      .then(function(r) { return r.json(); })
      .then(function(items) {
        while (historyEl.firstChild) historyEl.removeChild(historyEl.firstChild);
        items.forEach(function(item) {
          var li = document.createElement('li');
          li.textContent = item.content + ' (' + item.error_correction + ', ' + item.fill_color + ')';
          historyEl.appendChild(li);
        });
      })
      .catch(function() {});
  }

  document.getElementById('generate').addEventListener('click', function() {
    errorEl.textContent = '';
    var body = {
      content: document.getElementById('content').value,
      fill_color: document.getElementById('fill').value,
      back_color: document.getElementById('back').value,
      box_size: parseInt(document.getElementById('box').value, 10),
      border: parseInt(document.getElementById('border').value, 10),
      error_correction: document.getElementById('ec').value,
      rounded: document.getElementById('rounded').checked
    };
    var logo = document.getElementById('logo').value;
    if (logo) body.logo_url = logo;

    fetch('/api/qrcode.png', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify(body)
    })
      .then(function(r) {
        if (!r.ok) return r.json().then(function(e) { throw new Error(e.error || 'request failed'); });
        return r.blob();
      })
      .then(function(blob) {
        while (resultEl.firstChild) resultEl.removeChild(resultEl.firstChild);
        var img = document.createElement('img');
        img.setAttribute('alt', 'QR Code');
        img.setAttribute('src', URL.createObjectURL(blob));
        resultEl.appendChild(img);
        loadHistory();
      })
      .catch(function(err) {
        errorEl.textContent = err.message;
      });
  });

  loadHistory();
})();
</script>
</body>
</html>`
