package api

import "net/http"

// ChatUIHandler serves the embedded single-page chat UI. The page talks to
// the same JSON API the service exposes: /upload and /query.
func ChatUIHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(chatIndexHTML))
}

const chatIndexHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width,initial-scale=1" />
  <title>StockSage AI</title>
  <style>
    * { box-sizing: border-box; margin: 0; }
    body { font-family: -apple-system, "Segoe UI", sans-serif; background: #0f1420; color: #e7ecf3; }
    header { padding: 16px 24px; border-bottom: 1px solid #232b3d; display: flex; justify-content: space-between; align-items: center; }
    header .title { font-size: 18px; font-weight: 700; }
    header .subtitle { font-size: 12px; color: #8b96aa; }
    main { max-width: 860px; margin: 0 auto; padding: 16px; display: flex; flex-direction: column; gap: 16px; }
    .panel { background: #161d2e; border: 1px solid #232b3d; border-radius: 10px; padding: 16px; }
    .panel h2 { font-size: 13px; text-transform: uppercase; letter-spacing: .06em; color: #8b96aa; margin-bottom: 10px; }
    #messages { min-height: 320px; max-height: 55vh; overflow-y: auto; display: flex; flex-direction: column; gap: 10px; }
    .msg { padding: 10px 14px; border-radius: 10px; max-width: 85%; white-space: pre-wrap; line-height: 1.45; }
    .msg.user { align-self: flex-end; background: #2d4a8a; }
    .msg.bot { align-self: flex-start; background: #1e2840; }
    .composer { display: flex; gap: 8px; margin-top: 12px; }
    textarea { flex: 1; resize: none; padding: 10px; border-radius: 8px; border: 1px solid #232b3d; background: #0f1420; color: #e7ecf3; }
    button { padding: 10px 18px; border: 0; border-radius: 8px; background: #3b6fd4; color: #fff; font-weight: 600; cursor: pointer; }
    button:disabled { opacity: .5; cursor: default; }
    .hint { font-size: 12px; color: #8b96aa; margin-top: 8px; }
    input[type=file] { color: #8b96aa; }
  </style>
</head>
<body>
  <header>
    <div>
      <div class="title">StockSage AI</div>
      <div class="subtitle">Stock market Q&amp;A with retrieval, web search and fundamentals</div>
    </div>
  </header>

  <main>
    <section class="panel">
      <h2>Knowledge base</h2>
      <form id="uploadForm">
        <input id="fileInput" type="file" name="files" multiple accept=".pdf,.docx" />
        <button id="btnUpload" type="submit">Upload</button>
      </form>
      <div class="hint" id="uploadStatus">Upload PDF or DOCX documents to build the knowledge base.</div>
    </section>

    <section class="panel">
      <h2>Chat</h2>
      <div id="messages"></div>
      <div class="composer">
        <textarea id="question" rows="2" placeholder="Ask about stocks, strategies, fundamentals..."></textarea>
        <button id="btnSend">Send</button>
      </div>
      <div class="hint">Insights are informational only, not financial advice.</div>
    </section>
  </main>

  <script>
    const messages = document.getElementById('messages');
    const question = document.getElementById('question');
    const btnSend = document.getElementById('btnSend');

    function addMessage(text, who) {
      const div = document.createElement('div');
      div.className = 'msg ' + who;
      div.textContent = text;
      messages.appendChild(div);
      messages.scrollTop = messages.scrollHeight;
    }

    async function send() {
      const q = question.value.trim();
      if (!q) return;
      question.value = '';
      addMessage(q, 'user');
      btnSend.disabled = true;
      try {
        const resp = await fetch('/query', {
          method: 'POST',
          headers: { 'Content-Type': 'application/json' },
          body: JSON.stringify({ question: q })
        });
        const body = await resp.json();
        addMessage(resp.ok ? body.answer : 'Error: ' + body.error, 'bot');
      } catch (err) {
        addMessage('Error: ' + err, 'bot');
      } finally {
        btnSend.disabled = false;
      }
    }

    btnSend.addEventListener('click', send);
    question.addEventListener('keydown', (e) => {
      if (e.key === 'Enter' && !e.shiftKey) { e.preventDefault(); send(); }
    });

    document.getElementById('uploadForm').addEventListener('submit', async (e) => {
      e.preventDefault();
      const input = document.getElementById('fileInput');
      const status = document.getElementById('uploadStatus');
      if (!input.files.length) { status.textContent = 'Choose at least one file first.'; return; }
      const form = new FormData();
      for (const f of input.files) form.append('files', f);
      status.textContent = 'Uploading...';
      try {
        const resp = await fetch('/upload', { method: 'POST', body: form });
        const body = await resp.json();
        status.textContent = resp.ok ? body.message : 'Error: ' + body.error;
      } catch (err) {
        status.textContent = 'Error: ' + err;
      }
    });
  </script>
</body>
</html>
`
