package http

import (
	"encoding/json"
	"html/template"
)

var pageFuncs = template.FuncMap{
	"toJSON": toJSON,
}

func toJSON(v any) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil //nolint:gosec // marshalled JSON only
}

// pageTemplate is the browser surface. The script draws snapshots from
// /api/view and never styles markers itself.
const pageTemplate = `<!DOCTYPE html>
<html lang="it">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
  :root { --bg: #f4f4f4; --panel: #ffffff; --text: #222222; --muted: #666666; --line: #dddddd; }
  body.dark-theme { --bg: #121212; --panel: #1e1e1e; --text: #eeeeee; --muted: #aaaaaa; --line: #333333; }
  * { box-sizing: border-box; }
  body { margin: 0; font-family: system-ui, sans-serif; background: var(--bg); color: var(--text); }
  header { display: flex; flex-wrap: wrap; gap: 12px; align-items: center; padding: 10px 16px; background: var(--panel); border-bottom: 1px solid var(--line); }
  header h1 { font-size: 18px; margin: 0 auto 0 0; }
  header label { font-size: 13px; color: var(--muted); }
  select, input, button { font: inherit; padding: 4px 8px; }
  .status { font-size: 13px; padding: 2px 8px; border-radius: 10px; }
  .status-loading { color: #b26a00; }
  .status-success { color: #2e7d32; }
  .status-error { color: #c62828; font-weight: bold; }
  main { display: grid; grid-template-columns: 1fr 340px; height: calc(100vh - 54px); }
  #map { height: 100%; }
  aside { overflow-y: auto; background: var(--panel); border-left: 1px solid var(--line); padding: 8px; }
  table { width: 100%; border-collapse: collapse; font-size: 13px; }
  th, td { text-align: left; padding: 4px; border-bottom: 1px solid var(--line); }
  .legend { background: var(--panel); color: var(--text); padding: 6px 8px; border-radius: 4px; font-size: 12px; line-height: 18px; }
  .legend i { display: inline-block; width: 12px; height: 12px; margin-right: 6px; border-radius: 50%; vertical-align: middle; }
</style>
</head>
<body class="{{.BodyClass}}">
<header>
  <h1>{{.Title}}</h1>
  <label>Periodo
    <select id="window">
    {{- range .Windows}}
      <option value="{{.Days}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
    {{- end}}
    </select>
  </label>
  <label>Magnitudo min.
    <input id="min-mag" type="number" min="0" max="9" step="0.1" value="{{.MinMagnitude}}">
  </label>
  <button id="theme-toggle" type="button">{{.ThemeButton}}</button>
  <span id="status" class="status status-{{.Status.State}}">{{.Status.Text}}</span>
</header>
<main>
  <div id="map"></div>
  <aside>
    <table>
      <thead><tr><th>Luogo</th><th>Mag</th><th>Ora</th></tr></thead>
      <tbody id="quake-table">
      {{- range .Rows}}
        <tr><td>{{.Place}}</td><td>{{.Magnitude}}</td><td>{{.Time}}</td></tr>
      {{- end}}
      </tbody>
    </table>
  </aside>
</main>
<script>
(function () {
  var snap = {{toJSON .}};

  var map = L.map('map').setView([snap.view.lat, snap.view.lon], snap.view.zoom);
  var base = L.tileLayer(snap.base.url, { attribution: snap.base.attribution }).addTo(map);
  var events = L.layerGroup().addTo(map);
  var borders = null;
  var drawnAt = null;

  var legend = L.control({ position: 'bottomright' });
  legend.onAdd = function () {
    var div = L.DomUtil.create('div', 'legend');
    snap.legend.forEach(function (e) {
      var row = document.createElement('div');
      var swatch = document.createElement('i');
      swatch.style.background = e.color;
      row.appendChild(swatch);
      row.appendChild(document.createTextNode(e.label));
      div.appendChild(row);
    });
    return div;
  };
  legend.addTo(map);

  function popup(p) {
    var div = document.createElement('div');
    var place = document.createElement('b');
    place.textContent = p.place;
    div.appendChild(place);
    div.appendChild(document.createElement('br'));
    div.appendChild(document.createTextNode('Mag: ' + p.magnitude));
    div.appendChild(document.createElement('br'));
    div.appendChild(document.createTextNode('Ora: ' + p.time));
    return div;
  }

  function draw(s) {
    document.body.className = s.bodyClass;
    document.getElementById('theme-toggle').textContent = s.themeButton;

    var status = document.getElementById('status');
    status.textContent = s.status.text;
    status.className = 'status status-' + s.status.state;

    if (base._url !== s.base.url) {
      base.setUrl(s.base.url);
    }
    if (borders && s.borders) {
      borders.setStyle({ color: s.borders.color, weight: s.borders.weight, fillOpacity: s.borders.fillOpacity });
    }

    if (s.renderedAt !== drawnAt) {
      drawnAt = s.renderedAt;
      events.clearLayers();
      s.markers.forEach(function (m) {
        L.circle([m.lat, m.lon], {
          radius: m.radius,
          color: m.style.stroke,
          fillColor: m.style.fill,
          fillOpacity: m.fillOpacity
        }).bindPopup(popup(m.popup)).addTo(events);
      });

      var tbody = document.getElementById('quake-table');
      tbody.replaceChildren();
      s.rows.forEach(function (r) {
        var tr = document.createElement('tr');
        [r.place, r.magnitude, r.time].forEach(function (v) {
          var td = document.createElement('td');
          td.textContent = v;
          tr.appendChild(td);
        });
        tbody.appendChild(tr);
      });
    }
    snap = s;
  }

  function post(path, body) {
    return fetch(path, {
      method: 'POST',
      headers: { 'Content-Type': 'application/x-www-form-urlencoded' },
      body: new URLSearchParams(body || {})
    }).then(function (r) { return r.json(); }).then(function (s) {
      if (s.status) { draw(s); }
    });
  }

  function poll() {
    fetch('api/view').then(function (r) { return r.json(); }).then(draw).catch(function () {});
  }

  function loadBorders() {
    fetch('api/borders').then(function (r) {
      if (!r.ok) { throw new Error('HTTP ' + r.status); }
      return r.json();
    }).then(function (data) {
      borders = L.geoJSON(data, { interactive: false, style: function () {
        return { color: snap.borders ? snap.borders.color : '#555555', weight: 1, fillOpacity: 0 };
      } }).addTo(map);
      borders.bringToBack();
    }).catch(function (err) {
      console.warn('border overlay unavailable', err);
      setTimeout(loadBorders, 30000);
    });
  }

  document.getElementById('window').addEventListener('change', function (e) {
    document.getElementById('status').textContent = 'Caricamento...';
    post('api/window', { days: e.target.value });
  });
  document.getElementById('min-mag').addEventListener('change', function (e) {
    post('api/min-magnitude', { value: e.target.value });
  });
  document.getElementById('theme-toggle').addEventListener('click', function () {
    post('api/theme');
  });

  draw(snap);
  loadBorders();
  setInterval(poll, 15000);
})();
</script>
</body>
</html>
`
