package web

const indexHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Drink Reminder</title>
    <style>
        body { font-family: sans-serif; max-width: 520px; margin: 50px auto; padding: 20px; }
        h1 { color: #00796b; }
        button { background: #00796b; color: white; border: none; padding: 10px 20px; border-radius: 5px; cursor: pointer; }
        button:disabled { background: #b0bec5; cursor: default; }
        input { padding: 8px; margin: 5px; width: 80px; }
        #status { margin-top: 20px; min-height: 1.5em; }
    </style>
</head>
<body>
    <h1>💧 Drink Reminder</h1>
    <div>
        <label for="interval">Remind me every</label>
        <input type="number" id="interval" min="1" value="30"> minutes
    </div>
    <div style="margin-top: 20px;">
        <button id="start" onclick="start()">Start</button>
        <button id="stop" onclick="stop()">Stop</button>
        <button id="remind" onclick="remind()">Remind now</button>
    </div>
    <div id="status"></div>
    <script>
        let editing = false;
        document.getElementById('interval').addEventListener('input', () => { editing = true; });

        function render(data) {
            const input = document.getElementById('interval');
            if (!editing && data.intervalMinutes > 0) {
                input.value = data.intervalMinutes;
            }
            input.disabled = !data.controls.input;
            document.getElementById('start').disabled = !data.controls.start;
            document.getElementById('stop').disabled = !data.controls.stop;
            const status = document.getElementById('status');
            status.textContent = data.status.message;
            status.style.color = data.status.color;
        }

        async function call(method, path, body) {
            const res = await fetch(path, {
                method: method,
                headers: {'Content-Type': 'application/json'},
                body: body ? JSON.stringify(body) : undefined
            });
            render(await res.json());
        }

        async function start() {
            editing = false;
            await call('POST', '/api/start', {intervalMinutes: document.getElementById('interval').value});
        }
        const stop = () => call('POST', '/api/stop');
        const remind = () => call('POST', '/api/remind');
        const load = () => call('GET', '/api/status');

        load();
        setInterval(load, 3000);
    </script>
</body>
</html>`
